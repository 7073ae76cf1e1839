package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/deepscout-cli/internal/classify"
	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driving"
	"github.com/custodia-labs/deepscout-cli/internal/logger"
)

// Ensure ResearchService implements the driving ports.
var (
	_ driving.ResearchService = (*ResearchService)(nil)
	_ driving.SourceService   = (*ResearchService)(nil)
)

// DefaultTopK is the number of chunks retrieved when the caller does not
// specify one.
const DefaultTopK = 5

// DefaultMaxSources caps fetched web results when the caller does not
// specify a limit.
const DefaultMaxSources = 5

// ResearchService composes segmentation, embedding generation and the
// vector store into the research pipeline, coordinating with the external
// web-search, content-fetch and answer-synthesis collaborators.
type ResearchService struct {
	generator   *Generator
	store       driven.VectorStore
	analyzer    *classify.Analyzer
	searcher    driven.WebSearcher
	fetcher     driven.ContentFetcher
	synthesizer driven.AnswerSynthesizer
}

// NewResearchService creates a research service. The searcher, fetcher
// and synthesizer collaborators are optional and set separately; without
// them, research runs against already-indexed content and returns ranked
// chunks without prose synthesis.
func NewResearchService(generator *Generator, store driven.VectorStore, analyzer *classify.Analyzer) (*ResearchService, error) {
	if generator == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}
	if analyzer == nil {
		analyzer = classify.NewAnalyzer(nil)
	}
	return &ResearchService{
		generator: generator,
		store:     store,
		analyzer:  analyzer,
	}, nil
}

// SetWebSearcher sets the optional web search collaborator.
func (s *ResearchService) SetWebSearcher(searcher driven.WebSearcher) {
	s.searcher = searcher
}

// SetContentFetcher sets the optional content fetch collaborator.
func (s *ResearchService) SetContentFetcher(fetcher driven.ContentFetcher) {
	s.fetcher = fetcher
}

// SetSynthesizer sets the optional answer synthesis collaborator.
func (s *ResearchService) SetSynthesizer(synthesizer driven.AnswerSynthesizer) {
	s.synthesizer = synthesizer
}

// Analyzer returns the query analyzer owned by this service.
func (s *ResearchService) Analyzer() *classify.Analyzer {
	return s.analyzer
}

// EmbeddingModel reports the model identifier used for both indexing and
// query embedding.
func (s *ResearchService) EmbeddingModel() string {
	return s.generator.ModelName()
}

// IndexDocuments segments and embeds each document, then writes all
// resulting chunks to the vector store in one batched call. A document
// whose embedding fails is skipped with a warning, never fatal to the
// batch; only storage failures propagate.
func (s *ResearchService) IndexDocuments(ctx context.Context, docs []domain.Document) (domain.IndexReport, error) {
	logger.Section("Document Indexing")

	var report domain.IndexReport
	var chunks []domain.Chunk
	var vectors [][]float32

	for i := range docs {
		doc := docs[i]
		if doc.ID == "" {
			doc.ID = domain.DocumentID(doc.SourceURL)
		}

		embedded, err := s.generator.ProcessDocument(ctx, &doc)
		if err != nil {
			logger.Warn("Skipping document %s (%s): %v", doc.ID, doc.SourceURL, err)
			continue
		}
		if len(embedded) == 0 {
			logger.Debug("Document %s produced no chunks", doc.ID)
			continue
		}

		stored := 0
		for _, ec := range embedded {
			if len(ec.Embedding) == 0 {
				// No usable vector; excluded from storage and count.
				logger.Warn("Chunk %s of %s has no embedding, skipping", ec.ID, doc.ID)
				continue
			}
			chunks = append(chunks, ec.Chunk)
			vectors = append(vectors, ec.Embedding)
			stored++
		}

		if stored > 0 {
			report.ChunksIndexed += stored
			report.DocumentsProcessed++
		}
	}

	if len(chunks) == 0 {
		logger.Info("Nothing to index")
		return report, nil
	}

	if err := s.store.StoreDocuments(ctx, chunks, vectors); err != nil {
		return domain.IndexReport{}, fmt.Errorf("store documents: %w", err)
	}

	logger.Info("Indexed %d chunks from %d documents", report.ChunksIndexed, report.DocumentsProcessed)
	return report, nil
}

// Retrieve embeds the query with the same model used at index time and
// returns the topK most similar stored chunks. Any internal failure
// degrades to an empty slice: retrieval sits directly behind a tool call
// where a hard crash is worse than an empty answer.
func (s *ResearchService) Retrieve(ctx context.Context, query string, topK int) []domain.RetrievalResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := s.generator.EmbedQuery(ctx, query)
	if err != nil {
		logger.Warn("Retrieval degraded, query embedding failed: %v", err)
		return []domain.RetrievalResult{}
	}

	hits, err := s.store.SearchByVector(ctx, vector, topK)
	if err != nil {
		logger.Warn("Retrieval degraded, vector search failed: %v", err)
		return []domain.RetrievalResult{}
	}

	results := make([]domain.RetrievalResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.RetrievalResult{
			Chunk: hit.Chunk,
			Score: hit.Similarity,
		}
	}

	logger.Debug("Retrieved %d chunks for %q", len(results), query)
	return results
}

// Research runs the full pipeline: classify the query, search the web,
// fetch and index the results, retrieve the most relevant chunks and
// synthesize an answer. Collaborator failures degrade stage by stage;
// only a storage failure aborts the run.
func (s *ResearchService) Research(ctx context.Context, query string, opts domain.ResearchOptions) (*domain.ResearchAnswer, error) {
	logger.Section("Research Query")
	logger.Info("Query: %q", query)

	maxSources := opts.MaxSources
	if maxSources <= 0 {
		maxSources = DefaultMaxSources
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	analysis := s.analyzer.Analyze(query)

	if s.searcher != nil && s.fetcher != nil {
		if err := s.gatherSources(ctx, query, analysis, maxSources); err != nil {
			// Degrade to already-indexed content.
			logger.Warn("Source gathering failed: %v", err)
		}
	} else {
		logger.Debug("No search/fetch collaborators, using indexed content only")
	}

	results := s.Retrieve(ctx, query, topK)

	answer := &domain.ResearchAnswer{
		Query:    query,
		Results:  results,
		Sources:  distinctSources(results),
		Analysis: analysis,
	}

	if s.synthesizer != nil && len(results) > 0 {
		text, err := s.synthesizer.Synthesize(ctx, query, results)
		if err != nil {
			logger.Warn("Answer synthesis failed: %v", err)
		} else {
			answer.Answer = text
		}
	}

	return answer, nil
}

// gatherSources searches the web for the query and indexes the fetched
// pages. Individual fetch failures are skipped; an error is returned only
// when the search itself or the index write fails.
func (s *ResearchService) gatherSources(ctx context.Context, query string, analysis domain.QueryAnalysis, maxSources int) error {
	searchQuery := biasQuery(query, analysis)
	logger.Debug("Web search: %q (max %d)", searchQuery, maxSources)

	hits, err := s.searcher.Search(ctx, searchQuery, maxSources)
	if err != nil {
		return fmt.Errorf("web search: %w", err)
	}
	logger.Info("Web search returned %d results", len(hits))

	var docs []domain.Document
	for _, hit := range hits {
		if len(docs) >= maxSources {
			break
		}
		doc, err := s.fetcher.Fetch(ctx, hit.URL)
		if err != nil {
			logger.Warn("Fetch %s failed: %v", hit.URL, err)
			continue
		}
		if doc.Title == "" {
			doc.Title = hit.Title
		}
		docs = append(docs, *doc)
	}

	if len(docs) == 0 {
		logger.Debug("No pages fetched")
		return nil
	}

	if _, err := s.IndexDocuments(ctx, docs); err != nil {
		return fmt.Errorf("index fetched pages: %w", err)
	}
	return nil
}

// IndexedSources returns the distinct source URLs of stored chunks.
func (s *ResearchService) IndexedSources(ctx context.Context) ([]string, error) {
	sources, err := s.store.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexed sources: %w", err)
	}
	return sources, nil
}

// SuggestedSources returns the authoritative domains for a category.
func (s *ResearchService) SuggestedSources(queryType domain.QueryType) []string {
	return s.analyzer.SuggestedSources(queryType)
}

// RemoveSource deletes all indexed content for the source URL.
func (s *ResearchService) RemoveSource(ctx context.Context, sourceURL string) error {
	if sourceURL == "" {
		return fmt.Errorf("source url: %w", domain.ErrInvalidInput)
	}
	if err := s.store.DeleteBySource(ctx, sourceURL); err != nil {
		return fmt.Errorf("remove source %s: %w", sourceURL, err)
	}
	return nil
}

// biasQuery appends the detected category to the search query so topical
// engines rank authoritative pages higher. General queries pass through
// unchanged.
func biasQuery(query string, analysis domain.QueryAnalysis) string {
	if analysis.Type == domain.QueryTypeGeneral || analysis.Confidence <= 0 {
		return query
	}
	return query + " " + string(analysis.Type)
}

// distinctSources lists chunk source URLs in ranking order without
// duplicates.
func distinctSources(results []domain.RetrievalResult) []string {
	seen := make(map[string]bool, len(results))
	sources := make([]string, 0, len(results))
	for _, r := range results {
		if r.Chunk.SourceURL == "" || seen[r.Chunk.SourceURL] {
			continue
		}
		seen[r.Chunk.SourceURL] = true
		sources = append(sources, r.Chunk.SourceURL)
	}
	return sources
}
