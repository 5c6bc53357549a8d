package port

import (
	"context"
	"imgcompress/internal/core/domain"
)

type UploadProcessor interface {
	// Process validates an upload and returns its compressed representation. Errors for which
	// domain.IsClientError reports true are caused by the upload itself.
	Process(ctx context.Context, upload *domain.Upload) (*domain.CompressedImage, error)
}
