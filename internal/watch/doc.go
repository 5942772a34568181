// Package watch re-runs the review formatter whenever its document changes.
//
// [Debouncer] is a single-consumer coalescing queue: any number of change
// notifications collapse into one pending rescan that fires after a quiet
// period. [Live] applies it to an in-process document; [FileWatcher] applies
// it to HTML files on disk using fsnotify, skipping content whose BLAKE3
// digest it has already seen so that its own writes do not retrigger it.
package watch
