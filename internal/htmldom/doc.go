// Package htmldom implements the dom adapter over golang.org/x/net/html.
//
// Documents are parsed with goquery; selector groups are compiled once with
// cascadia and cached. Cloning, text extraction and rendering go through
// goquery so that every copy is detached from the live tree.
package htmldom
