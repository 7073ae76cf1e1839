package cli

import (
	"fmt"

	ffile "github.com/custodia-labs/deepscout-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/deepscout-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/deepscout-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/deepscout-cli/internal/adapters/driven/fetch/web"
	"github.com/custodia-labs/deepscout-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/deepscout-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/deepscout-cli/internal/adapters/driven/websearch/searxng"
	"github.com/custodia-labs/deepscout-cli/internal/classify"
	"github.com/custodia-labs/deepscout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/deepscout-cli/internal/core/services"
	"github.com/custodia-labs/deepscout-cli/internal/logger"
	"github.com/custodia-labs/deepscout-cli/internal/segment"
	"github.com/custodia-labs/deepscout-cli/internal/synth"
)

// storeCloser closes the vector store when the command tree finishes.
var storeCloser func() error

// ensureServices builds the service graph from configuration. Tests
// bypass it by setting the service variables directly.
func ensureServices() error {
	if researchService != nil {
		return nil
	}

	cfg, err := ffile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = cfg

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	chunkSize := cfg.GetInt("index.chunk_size")
	if chunkSize == 0 {
		chunkSize = segment.DefaultChunkSize
	}
	chunkOverlap := cfg.GetInt("index.chunk_overlap")
	if chunkOverlap == 0 {
		chunkOverlap = segment.DefaultChunkOverlap
	}
	segmenter, err := segment.New(chunkSize, chunkOverlap)
	if err != nil {
		return fmt.Errorf("configuring segmenter: %w", err)
	}

	batchSize := cfg.GetInt("embedding.batch_size")
	if batchSize == 0 {
		batchSize = services.DefaultBatchSize
	}
	generator, err := services.NewGenerator(embedder, segmenter, batchSize)
	if err != nil {
		return fmt.Errorf("configuring embedding generator: %w", err)
	}

	store, err := buildVectorStore(cfg)
	if err != nil {
		return err
	}
	storeCloser = store.Close

	analyzer := classify.NewAnalyzer(buildClassifier(cfg))

	research, err := services.NewResearchService(generator, store, analyzer)
	if err != nil {
		return fmt.Errorf("configuring research service: %w", err)
	}

	if baseURL := cfg.GetString("search.base_url"); baseURL != "" {
		searcher, err := searxng.NewClient(searxng.Config{
			BaseURL:           baseURL,
			RequestsPerSecond: cfg.GetFloat("search.rate"),
		})
		if err != nil {
			return fmt.Errorf("configuring web search: %w", err)
		}
		webSearcher = searcher
		research.SetWebSearcher(searcher)
	} else {
		logger.Debug("search.base_url not set, web search disabled")
	}

	fetcher := web.NewFetcher(web.Config{})
	contentFetcher = fetcher
	research.SetContentFetcher(fetcher)

	research.SetSynthesizer(synth.New(cfg.GetInt("synth.max_sentences")))

	researchService = research
	sourceService = research
	analyzerService = analyzer
	return nil
}

// buildEmbedder picks the embedding backend from config. Ollama is the
// default so the tool works without any API key.
func buildEmbedder(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	switch provider := cfg.GetString("embedding.provider"); provider {
	case "", "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.GetString("embedding.api_key"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildVectorStore picks the storage backend from config. SQLite is the
// default; memory is useful for throwaway sessions.
func buildVectorStore(cfg driven.ConfigStore) (driven.VectorStore, error) {
	switch backend := cfg.GetString("storage.backend"); backend {
	case "", "sqlite":
		store, err := sqlite.NewStore(cfg.GetString("storage.data_dir"))
		if err != nil {
			return nil, fmt.Errorf("opening vector store: %w", err)
		}
		return store, nil
	case "memory":
		return memory.NewVectorStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// buildClassifier picks the keyword matching mode from config.
func buildClassifier(cfg driven.ConfigStore) classify.Classifier {
	if cfg.GetBool("classify.word_boundary") {
		return classify.NewWordBoundary()
	}
	return classify.NewKeyword()
}

// closeServices releases resources held by the service graph.
func closeServices() {
	if storeCloser != nil {
		if err := storeCloser(); err != nil {
			logger.Warn("Closing vector store: %v", err)
		}
		storeCloser = nil
	}
}
