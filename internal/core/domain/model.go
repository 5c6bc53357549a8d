package domain

import "io"

// Upload is a file as received from a client. Filename and Size are declared by the client and are never trusted.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type Dimensions struct {
	Width  int
	Height int
}

// IsKnown reports whether both dimensions could be determined.
func (d Dimensions) IsKnown() bool {
	return d.Width > 0 && d.Height > 0
}

type CompressedImage struct {
	OriginalSize   int    `json:"originalSize"`
	CompressedSize int    `json:"compressedSize"`
	DataURL        string `json:"compressedDataUrl"`
	Filename       string `json:"filename"`
}
