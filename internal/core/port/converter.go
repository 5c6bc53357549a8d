package port

import (
	"context"
	"imgcompress/internal/core/domain"
)

type ImageConverter interface {
	// Dimensions decodes the image header of data and returns its width and height.
	Dimensions(ctx context.Context, data []byte) (domain.Dimensions, error)
	// Encode resizes data to the given dimensions and re-encodes it to the output format. A zero size keeps the
	// original dimensions.
	Encode(ctx context.Context, data []byte, size domain.Dimensions) ([]byte, error)
}
