package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/blob"
	"github.com/iliyamo/parkspace/internal/middleware"
)

const DefaultMaxImageBytes = 5 << 20

// imageTypes maps the accepted sniffed MIME types to their file extension.
var imageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// UploadHandler accepts listing photos. Store is nil when no bucket is
// configured, in which case uploads answer 503.
type UploadHandler struct {
	Store    blob.ImageStore
	MaxBytes int64
	Log      *zap.Logger
}

func NewUploadHandler(store blob.ImageStore, maxBytes int64, log *zap.Logger) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &UploadHandler{Store: store, MaxBytes: maxBytes, Log: log}
}

// SpaceImage stores the multipart "file" field and returns {url, key}.
func (h *UploadHandler) SpaceImage(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Image uploads are not configured"})
	}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Content-Type must be multipart/form-data"})
	}

	limit := fmt.Sprintf("File must be under %dMB", h.MaxBytes>>20)
	// leave room for the multipart envelope
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, h.MaxBytes+64<<10)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": limit})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "File is required"})
	}
	if fh.Size > h.MaxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": limit})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "File is required"})
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.MaxBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "File is required"})
	}
	if int64(len(data)) > h.MaxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": limit})
	}

	// trust the bytes, not the client's Content-Type
	mt := mimetype.Detect(data)
	ext, ok := imageTypes[mt.String()]
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unsupported file type"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	key := blob.ImageKey(middleware.CurrentUser(c).ID, ext)
	url, err := h.Store.PutImage(ctx, key, mt.String(), bytes.NewReader(data))
	if err != nil {
		h.Log.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to upload image"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url, "key": key})
}
