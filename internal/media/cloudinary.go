// Package media uploads product images to Cloudinary.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/aura-store/internal/config"
)

// Asset is a stored image.
type Asset struct {
	URL      string
	PublicID string
}

type Store interface {
	Upload(ctx context.Context, r io.Reader, name string) (Asset, error)
	Delete(ctx context.Context, publicID string) error
}

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// Connect builds the client and verifies the credentials against the Admin API.
func Connect(ctx context.Context, cfg config.Cloudinary) (*Cloudinary, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	res, err := cld.Admin.Ping(pingCtx)
	if err != nil {
		return nil, fmt.Errorf("ping cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("ping cloudinary: %s", res.Error.Message)
	}
	log.Info().Str("cloud", cld.Config.Cloud.CloudName).Msg("Connected to Cloudinary")

	return &Cloudinary{cld: cld, folder: cfg.Folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, name string) (Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return Asset{}, fmt.Errorf("upload %s: %w", name, err)
	}
	if res.Error.Message != "" {
		return Asset{}, fmt.Errorf("upload %s: %s", name, res.Error.Message)
	}
	if res.SecureURL == "" {
		return Asset{}, errors.New("upload " + name + ": empty url")
	}
	return Asset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy %s: %s", publicID, res.Error.Message)
	}
	return nil
}
