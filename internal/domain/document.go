package domain

import "strings"

// Document is one post's entry file held in memory for a single migration pass.
// Text and Lines describe the same content; Lines is Text split on "\n" with
// any "\r" left in place.
type Document struct {
	// Post is the post folder name, used to organise uploaded assets
	Post string

	// Dir is the post folder on disk
	Dir string

	// Path is the entry file path
	Path string

	// Title comes from the front matter, when present
	Title string

	Text  string
	Lines []string
}

// NewDocument builds a Document from the raw entry file text.
func NewDocument(post, dir, path, text string) *Document {
	return &Document{
		Post:  post,
		Dir:   dir,
		Path:  path,
		Text:  text,
		Lines: strings.Split(text, "\n"),
	}
}

// JoinLines is the inverse of the line split done by NewDocument.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
