package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/delivize/delivize/internal/config"
	"github.com/delivize/delivize/internal/upload/domain"
)

// Disk stores upload binaries under a local directory and serves them from a
// public base URL (a static route or a fronting CDN).
type Disk struct {
	dir     string
	baseURL string
}

func NewDisk(cfg config.Config) *Disk {
	return &Disk{dir: cfg.Uploads.Dir, baseURL: cfg.Uploads.PublicBaseURL}
}

func (d *Disk) Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	_ = ctx
	_ = contentType

	path := filepath.Join(d.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return d.baseURL + "/" + key, nil
}

func (d *Disk) Remove(ctx context.Context, key string) error {
	_ = ctx
	err := os.Remove(filepath.Join(d.dir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

var _ domain.Storage = (*Disk)(nil)
