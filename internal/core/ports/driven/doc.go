// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Document persistence (remote API or local files —
//     both backends satisfy the same contract and are selected by
//     explicit configuration, never by import substitution)
//   - RepoHistory: Commit resolution against the source repository
//   - PageWriter: The external writer agent producing page content
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
