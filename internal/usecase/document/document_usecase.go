package document

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"om-api/internal/domain/entity"
	"om-api/internal/domain/repository"
	"om-api/internal/worker"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/phuslu/log"
)

const pdfContentType = "application/pdf"

// JobQueue accepts background work; worker.Pool implements it.
type JobQueue interface {
	Submit(job worker.Job) error
}

type Repositories struct {
	Documents repository.DocumentRepository
	Pages     repository.PageRepository
	Chunks    repository.ChunkRepository
	Metrics   repository.MetricsRepository
	Blobs     repository.BlobStore
}

type Options struct {
	MatchCount       int
	ExcerptLength    int
	EmbedConcurrency int
}

func (o Options) withDefaults() Options {
	if o.MatchCount <= 0 {
		o.MatchCount = 10
	}
	if o.ExcerptLength <= 0 {
		o.ExcerptLength = 300
	}
	if o.EmbedConcurrency <= 0 {
		o.EmbedConcurrency = 1
	}
	return o
}

type DocumentUsecase struct {
	docRepo     repository.DocumentRepository
	pageRepo    repository.PageRepository
	chunkRepo   repository.ChunkRepository
	metricsRepo repository.MetricsRepository
	blobs       repository.BlobStore

	pages     PageExtractor
	chunker   *Chunker
	embedder  *EmbeddingGateway
	generator TextGenerator
	metrics   *MetricExtractor
	queue     JobQueue

	opts   Options
	logger *log.Logger
}

func NewDocumentUsecase(
	repos Repositories,
	pages PageExtractor,
	chunker *Chunker,
	embedder *EmbeddingGateway,
	generator TextGenerator,
	metrics *MetricExtractor,
	queue JobQueue,
	opts Options,
	logger *log.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		docRepo:     repos.Documents,
		pageRepo:    repos.Pages,
		chunkRepo:   repos.Chunks,
		metricsRepo: repos.Metrics,
		blobs:       repos.Blobs,
		pages:       pages,
		chunker:     chunker,
		embedder:    embedder,
		generator:   generator,
		metrics:     metrics,
		queue:       queue,
		opts:        opts.withDefaults(),
		logger:      logger,
	}
}

// UploadDocument stores the file, records the document as processing and
// queues its ingestion. It returns as soon as the job is queued.
func (uc *DocumentUsecase) UploadDocument(ctx context.Context, filename string, fileData []byte) (*entity.Document, error) {
	filename = path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, ErrInvalidFile
	}
	if len(fileData) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidFile)
	}
	if mt := mimetype.Detect(fileData); !mt.Is(pdfContentType) {
		return nil, fmt.Errorf("%w: content is %s", ErrInvalidFile, mt.String())
	}

	id := uuid.New().String()
	doc := &entity.Document{
		ID:       id,
		FileName: filename,
		FilePath: id + "/" + filename,
		Status:   entity.StatusProcessing,
	}

	if err := uc.blobs.Upload(ctx, doc.FilePath, fileData, pdfContentType); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	if err := uc.docRepo.Create(ctx, doc); err != nil {
		if delErr := uc.blobs.Delete(context.WithoutCancel(ctx), doc.FilePath); delErr != nil {
			uc.logger.Error().
				Err(delErr).
				Str("file_path", doc.FilePath).
				Msg("Failed to remove stored file of unsaved document")
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if err := uc.queue.Submit(uc.ingestionJob(doc)); err != nil {
		uc.markFailed(ctx, doc.ID, err)
		return nil, fmt.Errorf("failed to queue document for processing: %w", err)
	}

	uc.logger.Info().
		Str("document_id", doc.ID).
		Str("file_name", doc.FileName).
		Int("size", len(fileData)).
		Msg("Document queued for processing")

	return doc, nil
}

func (uc *DocumentUsecase) ingestionJob(doc *entity.Document) worker.Job {
	documentID, filePath := doc.ID, doc.FilePath
	return worker.Job{
		ID: documentID,
		Run: func(ctx context.Context) error {
			return uc.ProcessDocument(ctx, documentID, filePath)
		},
		OnError: func(ctx context.Context, err error) {
			uc.markFailed(ctx, documentID, err)
		},
	}
}

// markFailed records the terminal failed status. It must run even when the
// job context was cancelled by shutdown.
func (uc *DocumentUsecase) markFailed(ctx context.Context, documentID string, cause error) {
	ctx = context.WithoutCancel(ctx)

	moved, err := uc.docRepo.UpdateStatus(ctx, documentID, entity.StatusFailed, cause.Error())
	if err != nil {
		uc.logger.Error().
			Err(err).
			Str("document_id", documentID).
			Msg("Failed to mark document as failed")
		return
	}
	if !moved {
		uc.logger.Warn().
			Str("document_id", documentID).
			Msg("Document already in a terminal status, failure not recorded")
		return
	}

	uc.logger.Error().
		Err(cause).
		Str("document_id", documentID).
		Msg("Document processing failed")
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NormalizePaging returns the page and limit ListDocuments actually uses.
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	return page, limit
}

// list documents, newest first, with their metrics
func (uc *DocumentUsecase) ListDocuments(ctx context.Context, page, limit int) ([]entity.DocumentWithMetrics, int, error) {
	page, limit = NormalizePaging(page, limit)
	return uc.docRepo.List(ctx, page, limit)
}

// get document with metrics, metrics stay nil until ingestion stored them
func (uc *DocumentUsecase) GetDocument(ctx context.Context, documentID string) (*entity.DocumentWithMetrics, error) {
	doc, err := uc.findDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	metrics, err := uc.metricsRepo.FindByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}

	return &entity.DocumentWithMetrics{Document: *doc, Metrics: metrics}, nil
}

// DocumentFile is an original upload as stored.
type DocumentFile struct {
	Data        []byte
	FileName    string
	ContentType string
}

// GetDocumentFile returns the original upload with its file name and the
// content type recorded when it was stored.
func (uc *DocumentUsecase) GetDocumentFile(ctx context.Context, documentID string) (*DocumentFile, error) {
	doc, err := uc.findDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	data, contentType, err := uc.blobs.Download(ctx, doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if data == nil {
		return nil, ErrFileNotFound
	}

	file := &DocumentFile{
		Data:        data,
		FileName:    doc.FileName,
		ContentType: contentType,
	}
	if file.FileName == "" {
		file.FileName = "document.pdf"
	}
	if file.ContentType == "" {
		file.ContentType = pdfContentType
	}
	return file, nil
}

func (uc *DocumentUsecase) findDocument(ctx context.Context, documentID string) (*entity.Document, error) {
	if documentID == "" {
		return nil, ErrDocumentNotFound
	}
	if _, err := uuid.Parse(documentID); err != nil {
		return nil, ErrDocumentNotFound
	}

	doc, err := uc.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}
