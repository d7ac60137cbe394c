// Package services implements the core business logic behind the
// driving ports: drift classification, regeneration decisions, the
// generation run orchestrator, and post-run reconciliation.
//
// Services depend on driven ports and the domain package only. All
// infrastructure (stores, git, the writer agent) arrives through
// constructor injection.
package services
