// Prismfold turns AI-generated code review comments in saved review pages
// into compact collapsible widgets with severity badges.
//
// It formats pages once, extracts the comments as structured reports, or
// watches pages and reformats them whenever they change.
//
// Usage:
//
//	prismfold format pr-42.html > folded.html     # format one page to stdout
//	prismfold format --in-place 'reviews/**/*.html' # rewrite matched pages
//	prismfold extract --format json pr-42.html    # list comments as JSON
//	prismfold extract --fail-on high pr-42.html   # exit 1 on high or critical
//	prismfold watch --metrics-addr :9090 pr-42.html
//	prismfold cache clear                         # forget recorded page digests
//
// See https://github.com/dshills/prismfold for full documentation.
package main
