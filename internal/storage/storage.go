// Package storage provides the Cloudinary client used for campground
// image uploads.
//
// Images are stored by the external service; the database only keeps
// the delivery URL and the storage public id (filename) needed to
// destroy the object later.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/deppfellow/yelpcamp/internal/config"
	"github.com/rs/zerolog"
)

// UploadedImage is the result of one successful upload.
type UploadedImage struct {
	// URL is the HTTPS delivery URL.
	URL string

	// Filename is the storage public id, used for later destruction.
	Filename string
}

// Client wraps the Cloudinary SDK.
type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zerolog.Logger
}

// NewClient creates a storage Client from the cloudinary:// URL in
// config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) (*Client, error) {
	cld, err := cloudinary.NewFromURL(cfg.Storage.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	return &Client{
		cld:    cld,
		folder: cfg.Storage.Folder,
		logger: logger,
	}, nil
}

// Upload stores one image and returns its delivery URL and storage
// public id. filename is the client-supplied name, used only as an
// upload hint; Cloudinary assigns the real public id.
func (c *Client) Upload(ctx context.Context, filename string, contents io.Reader) (*UploadedImage, error) {
	resp, err := c.cld.Upload.Upload(ctx, contents, uploader.UploadParams{
		Folder:           c.folder,
		FilenameOverride: filename,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image %s: %w", filename, err)
	}

	c.logger.Debug().
		Str("public_id", resp.PublicID).
		Str("filename", filename).
		Msg("uploaded image")

	return &UploadedImage{
		URL:      resp.SecureURL,
		Filename: resp.PublicID,
	}, nil
}

// Destroy removes one stored image by its public id. Destroying an
// already-absent object is not an error.
func (c *Client) Destroy(ctx context.Context, filename string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: filename,
	})
	if err != nil {
		return fmt.Errorf("failed to destroy image %s: %w", filename, err)
	}

	c.logger.Debug().Str("public_id", filename).Msg("destroyed image")
	return nil
}
