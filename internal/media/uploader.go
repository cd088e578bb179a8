package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrNotConfigured is returned by uploads when no media host credentials
// were supplied.
var ErrNotConfigured = errors.New("media host is not configured")

// Uploader stores an image and returns its public HTTPS URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// HostError carries the failure message reported by the media host.
type HostError struct {
	Message string
}

func (e *HostError) Error() string {
	return e.Message
}

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader uploads images into a fixed Cloudinary folder.
type CloudinaryUploader struct {
	api    uploadAPI
	folder string
}

var _ Uploader = (*CloudinaryUploader)(nil)

// CloudinaryConfig selects credentials: URL wins when set, otherwise the
// cloud name with key and secret.
type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// NewCloudinaryUploader builds an uploader from cfg.
func NewCloudinaryUploader(cfg CloudinaryConfig) (*CloudinaryUploader, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.URL != "":
		cld, err = cloudinary.NewFromURL(cfg.URL)
	case cfg.CloudName != "" && cfg.APIKey != "" && cfg.APISecret != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	default:
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryUploader{api: &cld.Upload, folder: cfg.Folder}, nil
}

// Upload sends data to the configured folder and returns the secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	res, err := u.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:           u.folder,
		FilenameOverride: filename,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return "", &HostError{Message: "empty response from media host"}
	}
	if res.Error.Message != "" {
		return "", &HostError{Message: res.Error.Message}
	}
	if res.SecureURL == "" {
		return "", &HostError{Message: "media host returned no URL"}
	}
	return res.SecureURL, nil
}

// Unconfigured fails every upload with ErrNotConfigured.
type Unconfigured struct{}

var _ Uploader = Unconfigured{}

func (Unconfigured) Upload(context.Context, []byte, string) (string, error) {
	return "", ErrNotConfigured
}
