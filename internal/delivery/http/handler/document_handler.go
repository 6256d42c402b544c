package handler

import (
	"errors"
	"io"
	"mime"
	"strconv"

	"om-api/internal/delivery/http/dto"
	"om-api/internal/usecase/document"
	"om-api/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/phuslu/log"
)

type DocumentHandler struct {
	docUsecase *document.DocumentUsecase
	validate   *validator.Validate
	logger     *log.Logger
}

func NewDocumentHandler(docUsecase *document.DocumentUsecase, logger *log.Logger) *DocumentHandler {
	return &DocumentHandler{
		docUsecase: docUsecase,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Upload accepts a multipart "file" field and queues the PDF for ingestion.
//
//	POST /api/documents -> 202 {document_id, status}
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "file is required")
	}

	f, err := file.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "failed to open file")
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "failed to read file")
	}

	doc, err := h.docUsecase.UploadDocument(c.Context(), file.Filename, buf)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.UploadDocumentResponse{
		DocumentID: doc.ID,
		Status:     string(doc.Status),
	})
}

// List returns documents newest first with their metrics flattened in.
//
//	GET /api/documents?page=1&limit=20
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(document.DefaultPageLimit)))
	page, limit = document.NormalizePaging(page, limit)

	docs, total, err := h.docUsecase.ListDocuments(c.Context(), page, limit)
	if err != nil {
		return h.fail(c, err)
	}

	items := make([]dto.DocumentListItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.NewDocumentListItem(doc))
	}

	return c.Status(fiber.StatusOK).JSON(dto.ListDocumentsResponse{
		Data: items,
		Meta: dto.PaginationMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		},
	})
}

// GetByID returns one document and its metrics.
//
//	GET /api/documents/:id
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.docUsecase.GetDocument(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.NewDocumentDetailResponse(doc))
}

// File streams the original upload inline.
//
//	GET /api/documents/:id/file
func (h *DocumentHandler) File(c *fiber.Ctx) error {
	file, err := h.docUsecase.GetDocumentFile(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": file.FileName}))
	return c.Status(fiber.StatusOK).Send(file.Data)
}

// Query answers a question from one document.
//
//	POST /api/documents/:id/query {question}
func (h *DocumentHandler) Query(c *fiber.Ctx) error {
	var req dto.QueryDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "question is required and must be at most 4000 characters")
	}

	result, err := h.docUsecase.QueryDocument(c.Context(), c.Params("id"), req.Question)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewQueryDocumentResponse(result))
}

// fail maps usecase errors to status codes. Unknown errors are logged and
// reported as 500.
func (h *DocumentHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, document.ErrInvalidFile), errors.Is(err, document.ErrEmptyQuestion):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, document.ErrDocumentNotFound):
		return errorJSON(c, fiber.StatusNotFound, "document not found")
	case errors.Is(err, document.ErrFileNotFound):
		return errorJSON(c, fiber.StatusNotFound, "file not found in storage")
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrPoolClosed):
		return errorJSON(c, fiber.StatusServiceUnavailable, "ingestion queue unavailable, retry later")
	}

	h.logger.Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("Request failed")
	return errorJSON(c, fiber.StatusInternalServerError, err.Error())
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}
