// Package review detects machine-generated code-review comments in a
// document and rewrites them into collapsible widgets.
//
// A comment is recognized by its severity heading ("Severity: High 🔴").
// [Extractor] pulls out the severity heading, the 📂 file-path line and the
// issue, suggestion and context sections (a bold label followed by a
// blockquote). [Injector] copies the severity into a badge in the comment's
// surrounding chrome, and [Builder] assembles the replacement <details>
// widget.
//
// [Formatter] drives one comment through the states
// unseen → marked → extracted → header-injected → replaced, persisting the
// state on the node as the data-prismfold-state attribute before touching
// anything else. A marked node is never processed again, which makes
// repeated full-document scans idempotent.
package review
