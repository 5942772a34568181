// Package cache remembers which pages are already formatted.
//
// Entries are keyed by a SHA-256 hash of the configuration fingerprint and
// the page's absolute path, and store the content digest of the page as
// prismfold last left it. A page whose current digest matches is skipped
// without parsing. Entries older than the TTL (in seconds) are ignored on read
// and removed.
//
// The default cache directory is $XDG_CACHE_HOME/prismfold (or the
// OS-appropriate equivalent).
package cache
