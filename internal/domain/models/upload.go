package models

import "io"

// FileUpload is a file on its way to the backend: declared metadata for
// validation plus the content stream for the multipart payload.
type FileUpload struct {
	Name    string
	MIME    string
	Size    int64
	Content io.Reader
}
