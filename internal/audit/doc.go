// Package audit records who did what to the bed and when.
//
// Every state-changing command accepted over the API (position moves,
// lock toggles, preset operations, logins) is written to the audit_log
// table so carers and administrators can reconstruct a bed's history.
// Recording is best-effort: a failed write is logged but never blocks
// the command itself.
package audit
