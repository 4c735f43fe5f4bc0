/*
Package report defines the diagnostics produced while collecting and resolving
datapack resources.

Diagnostics are never returned as errors: one malformed file must not abort
the rest of a collection pass. Producers send them to a Reporter keyed by the
file they concern. A Reporter keeps at most one diagnostic per (file, kind);
adding a second one replaces the first, and producers clear a kind with
RemoveError once the problem is gone.
*/
package report
