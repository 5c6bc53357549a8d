package handler

import (
	"imgcompress/internal/core/domain"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-Id"

// NewRouter wires the upload handler and the health route into a gin engine.
func NewRouter(upload *Upload) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = domain.MaxFileSize + bodyOverhead

	r.Use(RequestLogger(), gin.CustomRecovery(recovered))

	r.GET("/healthz", Health)
	r.POST("/api/upload", upload.Handle)

	return r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RequestLogger tags every request with an id and stores a logger carrying it in the request context.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := ""
		id, err := uuid.NewV4()
		if err != nil {
			log.Warn().Err(err).Msg("could not generate request id")
		} else {
			requestID = id.String()
			c.Header(RequestIDHeader, requestID)
		}

		l := log.With().
			Str("requestId", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()

		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		l.Info().
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
	}
}

func recovered(c *gin.Context, err any) {
	log.Ctx(c.Request.Context()).Error().Interface("panic", err).Msg("recovered from panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgProcessing})
}
