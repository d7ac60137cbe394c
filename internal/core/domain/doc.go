// Package domain defines the core business entities for docwiki.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: The current state of a stored wiki document
//   - DocumentVersion: An immutable entry in a document's version log
//   - Metadata: The key-value block carried at the boundary of a document
//   - WriteRequest / WriteResult: The document store write contract
//   - Snapshot: A pre-run capture of a repository's documents
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
