package converter

import (
	"context"
	"errors"
	"fmt"
	"imgcompress/internal/core/domain"

	"github.com/h2non/bimg"
	"github.com/rs/zerolog/log"
)

var inputTypes = []bimg.ImageType{bimg.JPEG, bimg.PNG, bimg.WEBP, bimg.GIF}

// VipsConverter decodes, resizes and encodes images with libvips.
type VipsConverter struct {
	quality int
}

func NewVipsConverter(quality int) (*VipsConverter, error) {
	if !bimg.IsTypeSupportedSave(bimg.WEBP) {
		return nil, errors.New("libvips is missing webp save support")
	}

	for _, t := range inputTypes {
		if !bimg.IsTypeSupported(t) {
			log.Warn().Str("type", bimg.ImageTypeName(t)).Msg("libvips cannot load image type")
		}
	}

	log.Debug().Str("vips", bimg.VipsVersion).Int("quality", quality).Msg("libvips available")

	return &VipsConverter{quality: quality}, nil
}

func (v *VipsConverter) Dimensions(ctx context.Context, data []byte) (domain.Dimensions, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dimensions{}, err
	}

	size, err := bimg.NewImage(data).Size()
	if err != nil {
		return domain.Dimensions{}, fmt.Errorf("error reading image size: %w", err)
	}

	return domain.Dimensions{Width: size.Width, Height: size.Height}, nil
}

func (v *VipsConverter) Encode(ctx context.Context, data []byte, size domain.Dimensions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := bimg.Options{
		Type:          bimg.WEBP,
		Quality:       v.quality,
		StripMetadata: true,
	}

	// size already preserves the aspect ratio, so force exact dimensions instead of letting vips crop
	if size.IsKnown() {
		opts.Width = size.Width
		opts.Height = size.Height
		opts.Force = true
	}

	out, err := bimg.NewImage(data).Process(opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int("width", size.Width).Int("height", size.Height).Msg("vips processing failed")
		return nil, fmt.Errorf("error processing image: %w", err)
	}

	log.Ctx(ctx).Debug().Int("bytes", len(out)).Msg("vips processing finished")

	return out, nil
}
