package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"croplife/internal/logging"
	"croplife/internal/service"
)

// UploadFormField is the multipart field carrying the image.
const UploadFormField = "file"

// UploadHandler relays images to the media host.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadResponse carries the public URL of a stored image.
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadErrorResponse is the error body of the upload endpoint.
type UploadErrorResponse struct {
	Error string `json:"error"`
}

// Upload godoc
// @Summary Upload an image
// @Description Stores the image with the media host and returns its HTTPS URL.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} UploadErrorResponse
// @Failure 500 {object} UploadErrorResponse
// @Router /api/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx)

	fh, err := c.FormFile(UploadFormField)
	if err != nil {
		log.Warn("upload without file", zap.Error(err))
		return c.JSON(http.StatusBadRequest, UploadErrorResponse{Error: "No file provided."})
	}

	f, err := fh.Open()
	if err != nil {
		log.Error("open uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, UploadErrorResponse{Error: "Failed to read file."})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		log.Error("read uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, UploadErrorResponse{Error: "Failed to read file."})
	}
	if len(data) == 0 {
		return c.JSON(http.StatusBadRequest, UploadErrorResponse{Error: "No file provided."})
	}

	url, err := h.uploadService.Upload(ctx, data, fh.Filename)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, UploadErrorResponse{Error: service.UploadErrorMessage(err)})
	}
	return c.JSON(http.StatusOK, UploadResponse{URL: url})
}
