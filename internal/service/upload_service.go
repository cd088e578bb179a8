package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"croplife/internal/errors"
	"croplife/internal/logging"
	"croplife/internal/media"
)

// UploadService relays images to the media host.
type UploadService interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

type uploadService struct {
	uploader media.Uploader
}

// NewUploadService creates a new upload service.
func NewUploadService(uploader media.Uploader) UploadService {
	return &uploadService{uploader: uploader}
}

// Upload stores data and returns its public URL. Every failure is logged in
// full here; callers only decide what the client sees.
func (s *uploadService) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", errors.ErrNoFile
	}

	url, err := s.uploader.Upload(ctx, data, filename)
	if err != nil {
		logging.FromContext(ctx).Error("upload to media host failed",
			zap.String("filename", filename),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	return url, nil
}

// UploadErrorMessage returns the message shown to the client for a failed
// upload: the media host's own message when it sent one.
func UploadErrorMessage(err error) string {
	var hostErr *media.HostError
	switch {
	case stderrors.As(err, &hostErr):
		return hostErr.Message
	case stderrors.Is(err, media.ErrNotConfigured):
		return "Upload is not configured."
	default:
		return errors.MsgUnexpected
	}
}
