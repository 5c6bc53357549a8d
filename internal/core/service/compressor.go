package service

import (
	"context"
	"fmt"
	"imgcompress/internal/core/domain"
	"imgcompress/internal/core/port"
	"io"

	"github.com/rs/zerolog/log"
)

type Compressor struct {
	converter port.ImageConverter
	maxSize   int64
	bounds    domain.Dimensions
}

func NewCompressor(converter port.ImageConverter) *Compressor {
	return &Compressor{
		converter: converter,
		maxSize:   domain.MaxFileSize,
		bounds:    domain.Dimensions{Width: domain.MaxWidth, Height: domain.MaxHeight},
	}
}

func (c *Compressor) Process(ctx context.Context, upload *domain.Upload) (*domain.CompressedImage, error) {
	if upload == nil || upload.Body == nil {
		return nil, domain.ErrNoFile
	}

	filename := domain.SanitizeFilename(upload.Filename)

	l := log.Ctx(ctx).With().
		Str("filename", filename).
		Int64("declaredSize", upload.Size).
		Logger()

	if upload.Size > c.maxSize {
		l.Info().Msg("rejecting upload, declared size over limit")
		return nil, domain.ErrFileTooLarge
	}

	data, err := readLimited(upload.Body, c.maxSize)
	if err != nil {
		return nil, err
	}

	mime := domain.SniffMimeType(data)
	if !domain.IsAllowedMimeType(mime) || !domain.HasAllowedExtension(filename) {
		l.Info().Str("mime", mime).Msg("rejecting upload, invalid file type")
		return nil, domain.ErrInvalidFileType
	}

	dims, err := c.converter.Dimensions(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("error reading image dimensions: %w", err)
	}

	target := domain.FitWithin(dims, c.bounds)

	l.Debug().
		Str("mime", mime).
		Int("width", dims.Width).
		Int("height", dims.Height).
		Int("targetWidth", target.Width).
		Int("targetHeight", target.Height).
		Msg("encoding image")

	compressed, err := c.converter.Encode(ctx, data, target)
	if err != nil {
		return nil, fmt.Errorf("error encoding image: %w", err)
	}

	l.Info().Int("originalSize", len(data)).Int("compressedSize", len(compressed)).Msg("image compressed")

	return &domain.CompressedImage{
		OriginalSize:   len(data),
		CompressedSize: len(compressed),
		DataURL:        domain.DataURL(domain.OutputMimeType, compressed),
		Filename:       domain.EscapeHTML(filename),
	}, nil
}

// readLimited reads r to completion, failing with domain.ErrFileTooLarge as soon as more than limit bytes arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}

	if int64(len(buf)) > limit {
		return nil, domain.ErrFileTooLarge
	}

	return buf, nil
}
