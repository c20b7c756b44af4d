// Package types holds the shared data model for package operations: the
// per-package result record, the durable package information record, the
// environment and installed-program snapshots, and the interfaces of the
// collaborators the orchestrator calls (source runners, scripting host,
// shim generator, filesystem, registry reader, package-info store).
package types
