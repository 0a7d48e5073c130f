// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - ChunkStore: Chunk and embedding-slot persistence (SQLite, memory)
//   - ChunkBatch: A scoped write transaction handed out by ChunkStore
//   - SourceReader: Loads a source document into memory (plaintext, PDF)
//   - ConfigStore: Application configuration (TOML or YAML file)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
