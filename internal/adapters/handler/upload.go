package handler

import (
	"errors"
	"imgcompress/internal/core/domain"
	"imgcompress/internal/core/port"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	// FormField is the multipart field carrying the uploaded image.
	FormField = "file"

	// multipart framing and headers on top of the file itself
	bodyOverhead = 1 << 20
)

const (
	msgNoFile          = "No file uploaded"
	msgFileTooLarge    = "File size exceeds the maximum limit"
	msgInvalidFileType = "Invalid file type"
	msgProcessing      = "Error processing image"
)

type Upload struct {
	processor   port.UploadProcessor
	maxBodySize int64
}

func NewUpload(processor port.UploadProcessor) *Upload {
	return &Upload{processor: processor, maxBodySize: domain.MaxFileSize + bodyOverhead}
}

func (u *Upload) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, u.maxBodySize)

	fh, err := c.FormFile(FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			l.Info().Int64("limit", tooLarge.Limit).Msg("request body over limit")
			respondError(c, domain.ErrFileTooLarge)
			return
		}

		l.Info().Err(err).Msg("no file in request")
		respondError(c, domain.ErrNoFile)
		return
	}

	f, err := fh.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		respondError(c, err)
		return
	}
	defer f.Close()

	res, err := u.processor.Process(ctx, &domain.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Body:     f,
	})
	if err != nil {
		if !domain.IsClientError(err) {
			l.Error().Err(err).Msg("failed to process upload")
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoFile):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgNoFile})
	case errors.Is(err, domain.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgFileTooLarge})
	case errors.Is(err, domain.ErrInvalidFileType):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidFileType})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgProcessing})
	}
}
