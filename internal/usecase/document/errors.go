package document

import "errors"

var (
	ErrInvalidFile        = errors.New("only PDF files are allowed")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrFileNotFound       = errors.New("file not found in storage")
	ErrEmptyQuestion      = errors.New("question is required")
	ErrNoExtractableText  = errors.New("no text extracted from document")
	ErrInvalidChunkConfig = errors.New("chunk size must be positive and greater than chunk overlap")
	ErrEmptyAnswer        = errors.New("model returned an empty answer")
)
