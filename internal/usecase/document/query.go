package document

import (
	"context"
	"fmt"
	"strings"
)

const NoRelevantInformationAnswer = "No relevant information found."

const answerPromptTemplate = `Answer the question using ONLY the provided context.
If the answer is not found in the context, say so clearly.

Question:
%s

Context:
%s
`

// Source points at a matched chunk for citation.
type Source struct {
	Page       int
	Excerpt    string
	Similarity float64
}

type QueryResult struct {
	Answer  string
	Sources []Source
}

// QueryDocument answers a question from the chunks of one document. Each call
// is independent.
func (uc *DocumentUsecase) QueryDocument(ctx context.Context, documentID, question string) (*QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if _, err := uc.findDocument(ctx, documentID); err != nil {
		return nil, err
	}

	// 1. embed the question
	queryEmbedding, err := uc.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	// 2. nearest chunks of this document
	matches, err := uc.chunkRepo.MatchChunks(ctx, queryEmbedding, documentID, uc.opts.MatchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to search similar chunks: %w", err)
	}

	if len(matches) == 0 {
		return &QueryResult{
			Answer:  NoRelevantInformationAnswer,
			Sources: []Source{},
		}, nil
	}

	// 3. context in search order, sources for citation
	blocks := make([]string, 0, len(matches))
	sources := make([]Source, 0, len(matches))
	for _, match := range matches {
		blocks = append(blocks, fmt.Sprintf("(Page %d) %s", match.PageNumber, match.Content))
		sources = append(sources, Source{
			Page:       match.PageNumber,
			Excerpt:    truncateRunes(match.Content, uc.opts.ExcerptLength),
			Similarity: match.Similarity,
		})
	}

	// 4. generate answer
	prompt := fmt.Sprintf(answerPromptTemplate, question, strings.Join(blocks, "\n\n"))
	answer, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	uc.logger.Debug().
		Str("document_id", documentID).
		Int("matches", len(matches)).
		Msg("Question answered")

	return &QueryResult{
		Answer:  answer,
		Sources: sources,
	}, nil
}
