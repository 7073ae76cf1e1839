package domain

// RetrievalResult is a scored chunk returned by retrieval.
// Results are ordered by descending similarity; ties keep insertion order.
type RetrievalResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity between the query vector and the
	// chunk's stored vector.
	Score float64
}

// IndexReport summarises one indexing call.
type IndexReport struct {
	// ChunksIndexed is the number of chunks written to the vector store.
	// Chunks whose embedding failed are excluded.
	ChunksIndexed int

	// DocumentsProcessed is the number of input documents that produced
	// at least one stored chunk.
	DocumentsProcessed int
}

// ResearchOptions configures a full research run.
type ResearchOptions struct {
	// MaxSources caps how many web results are fetched and indexed.
	MaxSources int

	// TopK is the number of chunks retrieved for synthesis.
	TopK int
}

// ResearchAnswer is the synthesized result of a research query.
type ResearchAnswer struct {
	// Query is the original query.
	Query string

	// Answer is the synthesized text with citations.
	Answer string

	// Sources lists the distinct source URLs backing the answer,
	// in ranking order.
	Sources []string

	// Results are the ranked chunks the answer was built from.
	Results []RetrievalResult

	// Analysis is the classification of the query.
	Analysis QueryAnalysis
}

// WebResult is a single hit from the web search collaborator.
type WebResult struct {
	// Title is the page title as reported by the search engine.
	Title string

	// URL is the page location.
	URL string

	// Snippet is the short description returned by the search engine.
	Snippet string
}
