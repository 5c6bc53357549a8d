package domain

import "errors"

var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file size exceeds the maximum limit")
	ErrInvalidFileType = errors.New("invalid file type")
)

const (
	MaxFileSize       = 10 * 1024 * 1024
	MaxWidth          = 1920
	MaxHeight         = 1080
	MaxFilenameLength = 255
	OutputQuality     = 80
	OutputMimeType    = "image/webp"
)

var AllowedMimeTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// IsClientError reports whether err was caused by the upload itself rather than by processing it.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoFile) || errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrInvalidFileType)
}
