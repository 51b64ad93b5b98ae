// Package object describes objects kept by the segment store and their
// binary record format.
package object

import "bytes"

// Object is a file stored by the segment store. An Object is identified by
// its canonical path and is immutable: storing new content produces a new
// Object that replaces the old one.
type Object struct {
	path    string
	content []byte
}

// New constructs Object for the given path. Content may be nil which means
// the object has no content at all (as opposed to empty content). Path is
// not normalized, see NormalizePath.
func New(path string, content []byte) *Object {
	return &Object{
		path:    path,
		content: content,
	}
}

// Path returns object path.
func (o *Object) Path() string {
	return o.path
}

// FileName returns the last element of the object path.
func (o *Object) FileName() string {
	return FileName(o.path)
}

// Content returns object content. The result MUST NOT be mutated.
func (o *Object) Content() []byte {
	return o.content
}

// HasContent checks whether object carries content. Objects created via
// Create have no content until something is written to them.
func (o *Object) HasContent() bool {
	return o.content != nil
}

// Equal checks whether two objects have the same path and content.
func (o *Object) Equal(x *Object) bool {
	return o.path == x.path &&
		o.HasContent() == x.HasContent() &&
		bytes.Equal(o.content, x.content)
}
