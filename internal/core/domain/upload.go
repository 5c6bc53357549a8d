package domain

import (
	"encoding/base64"
	"math"
	"net/http"
	"path"
	"slices"
	"strings"
)

// SanitizeFilename strips any directory part from a client supplied name and truncates it to MaxFilenameLength
// characters.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}

	runes := []rune(base)
	if len(runes) > MaxFilenameLength {
		runes = runes[:MaxFilenameLength]
	}

	return string(runes)
}

func HasAllowedExtension(name string) bool {
	return slices.Contains(AllowedExtensions, strings.ToLower(path.Ext(name)))
}

// SniffMimeType determines the media type from the leading bytes of data.
func SniffMimeType(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}

	return strings.TrimSpace(mime)
}

func IsAllowedMimeType(mime string) bool {
	return slices.Contains(AllowedMimeTypes, mime)
}

// FitWithin scales src down to fit into bounds while keeping its aspect ratio. Images that already fit are returned
// as is, images are never scaled up.
func FitWithin(src Dimensions, bounds Dimensions) Dimensions {
	if !src.IsKnown() {
		return src
	}

	aspectRatio := float64(src.Width) / float64(src.Height)

	width := min(src.Width, bounds.Width)
	height := roundDimension(float64(width) / aspectRatio)

	if height > bounds.Height {
		height = bounds.Height
		width = roundDimension(float64(height) * aspectRatio)
	}

	return Dimensions{Width: width, Height: height}
}

func roundDimension(v float64) int {
	return max(1, int(math.Round(v)))
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes characters with a meaning in markup so s can be embedded in a document.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
