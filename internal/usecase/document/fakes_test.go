package document

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"om-api/internal/domain/entity"
	"om-api/internal/worker"
	"om-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"
)

const testDimensions = 4

// Mock implementations

type fakeDocRepo struct {
	mu        sync.Mutex
	docs      map[string]*entity.Document
	createErr error
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: map[string]*entity.Document{}}
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) FindByID(ctx context.Context, id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDocRepo) List(ctx context.Context, page, limit int) ([]entity.DocumentWithMetrics, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.DocumentWithMetrics{}
	for _, doc := range r.docs {
		out = append(out, entity.DocumentWithMetrics{Document: *doc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out, len(out), nil
}

func (r *fakeDocRepo) UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.Status != entity.StatusProcessing {
		return false, nil
	}
	doc.Status = status
	if reason != "" {
		doc.FailureReason = &reason
	}
	return true, nil
}

func (r *fakeDocRepo) status(id string) entity.DocumentStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id].Status
}

type fakePageRepo struct {
	mu    sync.Mutex
	pages []entity.DocumentPage
}

func (r *fakePageRepo) Create(ctx context.Context, page *entity.DocumentPage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, *page)
	return nil
}

type fakeChunkRepo struct {
	mu       sync.Mutex
	chunks   []entity.DocumentChunk
	matches  []entity.ChunkMatch
	matchErr error

	lastLimit int
	lastDocID string
}

func (r *fakeChunkRepo) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, *chunk)
	return nil
}

func (r *fakeChunkRepo) MatchChunks(ctx context.Context, embedding pgvector.Vector, documentID string, limit int) ([]entity.ChunkMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	r.lastDocID = documentID
	if r.matchErr != nil {
		return nil, r.matchErr
	}
	return r.matches, nil
}

func (r *fakeChunkRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks)
}

type fakeMetricsRepo struct {
	mu      sync.Mutex
	records map[string]*entity.ExtractedMetrics
}

func newFakeMetricsRepo() *fakeMetricsRepo {
	return &fakeMetricsRepo{records: map[string]*entity.ExtractedMetrics{}}
}

func (r *fakeMetricsRepo) Create(ctx context.Context, metrics *entity.ExtractedMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[metrics.DocumentID] = metrics
	return nil
}

func (r *fakeMetricsRepo) FindByDocumentID(ctx context.Context, documentID string) (*entity.ExtractedMetrics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[documentID], nil
}

type fakeBlobStore struct {
	mu           sync.Mutex
	blobs        map[string][]byte
	contentTypes map[string]string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (s *fakeBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[path] = data
	s.contentTypes[path] = contentType
	return nil
}

func (s *fakeBlobStore) Download(ctx context.Context, path string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blobs[path], s.contentTypes[path], nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, path)
	delete(s.contentTypes, path)
	return nil
}

var errEmbeddingQuota = errors.New("embedding quota exceeded")

// fakeEmbedder fails on its failOn-th call when failOn > 0.
type fakeEmbedder struct {
	mu     sync.Mutex
	calls  int
	failOn int
	texts  []string
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.texts = append(e.texts, text)
	if e.failOn > 0 && e.calls == e.failOn {
		return nil, errEmbeddingQuota
	}
	vec := make([]float32, testDimensions)
	vec[0] = float32(len(text))
	return vec, nil
}

type fakeGenerator struct {
	mu       sync.Mutex
	prompts  []string
	response string
	err      error
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakePageExtractor struct {
	pages []string
	err   error
}

func (p *fakePageExtractor) ExtractPages(data []byte) ([]string, error) {
	return p.pages, p.err
}

type fakeQueue struct {
	jobs []worker.Job
	err  error
}

func (q *fakeQueue) Submit(job worker.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// fixture wires a DocumentUsecase to fakes.
type fixture struct {
	uc        *DocumentUsecase
	docs      *fakeDocRepo
	pages     *fakePageRepo
	chunks    *fakeChunkRepo
	metrics   *fakeMetricsRepo
	blobs     *fakeBlobStore
	extractor *fakePageExtractor
	embedder  *fakeEmbedder
	generator *fakeGenerator
	queue     *fakeQueue
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	chunkSize, chunkOverlap int
	opts                    Options
}

func withChunking(size, overlap int) fixtureOption {
	return func(c *fixtureConfig) { c.chunkSize, c.chunkOverlap = size, overlap }
}

func withOptions(opts Options) fixtureOption {
	return func(c *fixtureConfig) { c.opts = opts }
}

func newFixture(t *testing.T, options ...fixtureOption) *fixture {
	t.Helper()

	cfg := fixtureConfig{chunkSize: DefaultChunkSize, chunkOverlap: DefaultChunkOverlap}
	for _, opt := range options {
		opt(&cfg)
	}

	chunker, err := NewChunker(cfg.chunkSize, cfg.chunkOverlap)
	require.NoError(t, err)

	f := &fixture{
		docs:      newFakeDocRepo(),
		pages:     &fakePageRepo{},
		chunks:    &fakeChunkRepo{},
		metrics:   newFakeMetricsRepo(),
		blobs:     newFakeBlobStore(),
		extractor: &fakePageExtractor{},
		embedder:  &fakeEmbedder{},
		generator: &fakeGenerator{response: `{"purchase_price": 1000000}`},
		queue:     &fakeQueue{},
	}

	log := logger.Discard()
	f.uc = NewDocumentUsecase(
		Repositories{
			Documents: f.docs,
			Pages:     f.pages,
			Chunks:    f.chunks,
			Metrics:   f.metrics,
			Blobs:     f.blobs,
		},
		f.extractor,
		chunker,
		NewEmbeddingGateway(f.embedder, testDimensions, 0),
		f.generator,
		NewMetricExtractor(f.generator, DefaultExtractionMaxChars, log),
		f.queue,
		cfg.opts,
		log,
	)
	return f
}

// storedDocument puts a processing document and its file in the fakes.
func (f *fixture) storedDocument(t *testing.T, name string, data []byte) *entity.Document {
	t.Helper()
	id := uuid.New().String()
	doc := &entity.Document{
		ID:       id,
		FileName: name,
		FilePath: id + "/" + name,
		Status:   entity.StatusProcessing,
	}
	require.NoError(t, f.docs.Create(context.Background(), doc))
	if data != nil {
		require.NoError(t, f.blobs.Upload(context.Background(), doc.FilePath, data, pdfContentType))
	}
	return doc
}

// runJob executes a queued ingestion job the way worker.Pool does.
func runJob(ctx context.Context, job worker.Job) error {
	err := job.Run(ctx)
	if err != nil && job.OnError != nil {
		job.OnError(ctx, err)
	}
	return err
}
