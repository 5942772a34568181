// Package dom defines the document adapter the review formatter works through.
//
// The formatter only reads and mutates a tree via [Document] and [Node], so
// it can run against a parsed HTML file, an in-memory fixture, or any other
// tree that implements these two interfaces. See package htmldom for the
// implementation over golang.org/x/net/html.
package dom
