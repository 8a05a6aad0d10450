// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Tokenizer: Token counting for every size decision in the engine
//   - DocumentProcessor: Turns one file into a document and its chunks
//   - ProcessorRegistry: Selects the processor for a source type
//   - DocumentStore: Document and chunk persistence with hash deduplication
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, chunks are stored without vectors.
//   - SearchEngine: Keyword index over chunks (bleve). Without it, search is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or processor package
package driven
