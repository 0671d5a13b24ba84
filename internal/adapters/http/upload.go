package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Livecast/internal/adapters/storage"
)

const errUploadFailed = "Upload failed"

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// UploadHandler accepts a finished recording as multipart field "file"
// and answers with the URL it is reachable at.
func UploadHandler(store storage.Storage, maxBytes int64, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		header, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Empty file"})
			return
		}
		if header.Size == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Empty file"})
			return
		}

		f, err := header.Open()
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("open upload")
			c.JSON(http.StatusInternalServerError, gin.H{"error": errUploadFailed})
			return
		}
		defer f.Close()

		key := "recordings/" + uuid.NewString()
		if ext := strings.ToLower(filepath.Ext(header.Filename)); extPattern.MatchString(ext) {
			key += ext
		}
		contentType := header.Header.Get("Content-Type")

		ctx := c.Request.Context()
		if err := store.Write(ctx, key, f, header.Size, contentType); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Str("key", key).Msg("upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": errUploadFailed})
			return
		}
		url, err := store.URL(ctx, key, ttl)
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Str("key", key).Msg("upload url failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": errUploadFailed})
			return
		}
		log.Info().Str("module", "adapters.http").Str("key", key).Int64("size", header.Size).Msg("recording uploaded")
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}
