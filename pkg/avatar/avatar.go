// Package avatar stores uploaded profile images on the local
// filesystem. Images are decoded, resized to a fixed square, written
// to a scratch directory and only then moved into the public dir, so
// a half-written file is never served.
package avatar

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const (
	avatarSize   = 250
	avatarSubdir = "avatars"
)

type Storage struct {
	publicDir string
	tmpDir    string
}

func NewStorage(publicDir, tmpDir string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Join(publicDir, avatarSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar dir: %w", err)
	}
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tmp dir: %w", err)
	}
	return &Storage{
		publicDir: publicDir,
		tmpDir:    tmpDir,
	}, nil
}

// Store decodes src, resizes it to 250x250 and installs it under the
// public avatar directory as name. It returns the public URL path.
func (s *Storage) Store(src io.Reader, name string) (string, error) {
	img, err := imaging.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Resize(img, avatarSize, avatarSize, imaging.Lanczos)

	tmpPath := filepath.Join(s.tmpDir, name)
	if err := imaging.Save(resized, tmpPath); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	finalPath := filepath.Join(s.publicDir, avatarSubdir, name)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("failed to move image into place: %w", err)
	}

	return "/" + avatarSubdir + "/" + name, nil
}
