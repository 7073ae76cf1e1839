// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorStore: Persists embedded chunks and answers nearest-neighbour queries
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - WebSearcher: Web search collaborator. Without it, research runs against
//     already-indexed content only.
//   - ContentFetcher: Page fetch/clean collaborator. Without it, search hits
//     cannot be indexed.
//   - AnswerSynthesizer: Builds the final prose answer. Without it, research
//     returns ranked chunks without synthesis.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
