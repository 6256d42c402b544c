package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	"om-api/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

// ProcessDocument runs the ingestion of one stored file and moves the
// document to ready. Any returned error leaves the document in processing;
// the caller marks it failed. Rows written before the error are kept.
func (uc *DocumentUsecase) ProcessDocument(ctx context.Context, documentID, filePath string) error {
	start := time.Now()
	uc.logger.Info().
		Str("document_id", documentID).
		Msg("Starting processing for document")

	// 1 download
	data, _, err := uc.blobs.Download(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("failed to download file %s: %w", filePath, ErrFileNotFound)
	}

	// 2 extract text per page
	rawPages, err := uc.pages.ExtractPages(data)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}

	// 3 store pages and their embedded chunks
	var texts []string
	totalChunks := 0
	for i, raw := range rawPages {
		cleaned := cleanText(raw)
		if cleaned == "" {
			continue
		}
		pageNumber := i + 1

		page := &entity.DocumentPage{
			DocumentID: documentID,
			PageNumber: pageNumber,
			RawText:    cleaned,
		}
		if err := uc.pageRepo.Create(ctx, page); err != nil {
			return fmt.Errorf("failed to save page %d: %w", pageNumber, err)
		}

		chunks := uc.chunker.ChunkText(cleaned, pageNumber)
		if err := uc.storeChunks(ctx, documentID, chunks); err != nil {
			return err
		}

		texts = append(texts, cleaned)
		totalChunks += len(chunks)
	}

	uc.logger.Info().
		Str("document_id", documentID).
		Int("pages", len(rawPages)).
		Int("stored_pages", len(texts)).
		Int("chunks", totalChunks).
		Msg("Stored pages and chunks")

	if len(texts) == 0 {
		return ErrNoExtractableText
	}

	// 4 structured metrics over the whole text
	fullText := strings.Join(texts, " ")
	metrics, err := uc.metrics.Extract(ctx, fullText)
	if err != nil {
		return err
	}
	metrics.DocumentID = documentID
	if err := uc.metricsRepo.Create(ctx, metrics); err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}

	// 5 done
	moved, err := uc.docRepo.UpdateStatus(ctx, documentID, entity.StatusReady, "")
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if !moved {
		uc.logger.Warn().
			Str("document_id", documentID).
			Msg("Document left processing before ingestion finished")
		return nil
	}

	uc.logger.Info().
		Str("document_id", documentID).
		Int("chunks", totalChunks).
		Dur("duration", time.Since(start)).
		Msg("Document processed successfully")
	return nil
}

// storeChunks embeds and saves the chunks of one page. Calls run concurrently
// up to EmbedConcurrency; the first failure cancels the others.
func (uc *DocumentUsecase) storeChunks(ctx context.Context, documentID string, chunks []PageChunk) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.opts.EmbedConcurrency)

	for _, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			embedding, err := uc.embedder.Embed(gctx, chunk.Content)
			if err != nil {
				return fmt.Errorf("page %d: %w", chunk.PageNumber, err)
			}

			err = uc.chunkRepo.Create(gctx, &entity.DocumentChunk{
				DocumentID: documentID,
				PageNumber: chunk.PageNumber,
				Content:    chunk.Content,
				Embedding:  embedding,
			})
			if err != nil {
				return fmt.Errorf("failed to save chunk of page %d: %w", chunk.PageNumber, err)
			}
			return nil
		})
	}

	return g.Wait()
}
