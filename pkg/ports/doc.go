/*
Package ports defines the driven ports (interfaces) of the mcdata workspace.

These interfaces decouple collection and resolution from external
implementations, so diagnostics can live in memory, in a JSON file or in Redis, and file changes
can come from any watcher.

# Key Interfaces

  - DiagnosticStore: a report.Reporter that can also be listed and reset.
  - Watchable: signals that the files under a root changed.
*/
package ports
