// Package redact strips credentials out of extracted review comments before
// they are written to a report.
//
// A [Redactor] applies a fixed set of heuristics (cloud and chat tokens,
// JWTs, private key headers, key and password assignments) plus any
// user-supplied patterns from privacy.redactPatterns. Matches are replaced
// with "[REDACTED]". The page itself is never redacted; only report output is.
package redact
