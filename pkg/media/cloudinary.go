package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// cloudinaryAPI is the subset of *uploader.API the store uses
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Cloudinary stores assets in a Cloudinary folder
type Cloudinary struct {
	api    cloudinaryAPI
	folder string
}

// NewCloudinary builds a store from account credentials
func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary configuration error: %w", err)
	}
	return &Cloudinary{api: &cld.Upload, folder: folder}, nil
}

func (s *Cloudinary) Upload(ctx context.Context, r io.Reader, _ int64, filename string, kind Kind) (*Asset, error) {
	if err := CheckFormat(filename, kind); err != nil {
		return nil, err
	}
	res, err := s.api.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: string(kind),
	})
	if err != nil {
		return nil, fmt.Errorf("upload to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("upload to cloudinary: %s", res.Error.Message)
	}
	return &Asset{URL: res.SecureURL, PublicID: res.PublicID, Kind: kind}, nil
}

func (s *Cloudinary) Delete(ctx context.Context, publicIDOrURL string, kind Kind) error {
	if publicIDOrURL == "" {
		return nil
	}
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     PublicIDFromURL(s.folder, publicIDOrURL),
		ResourceType: string(kind),
	})
	if err != nil {
		return fmt.Errorf("destroy on cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy on cloudinary: %s", res.Error.Message)
	}
	return nil
}
