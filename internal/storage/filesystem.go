package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// FilesystemStorage implements ObjectStorage on top of an afero filesystem.
// Production uses a base-path OsFs rooted at the configured document
// directory; tests use an in-memory filesystem.
type FilesystemStorage struct {
	fs afero.Fs
}

// NewFilesystemStorage wraps an afero filesystem as object storage.
func NewFilesystemStorage(fsys afero.Fs) *FilesystemStorage {
	return &FilesystemStorage{fs: fsys}
}

// NewOsStorage returns object storage rooted at the given directory,
// creating it if needed.
func NewOsStorage(root string) (*FilesystemStorage, error) {
	base := afero.NewOsFs()
	if err := base.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document root %s: %w", root, err)
	}
	return &FilesystemStorage{fs: afero.NewBasePathFs(base, root)}, nil
}

func (s *FilesystemStorage) Download(ctx context.Context, objectPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, objectPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to download %s: %w", objectPath, err)
	}
	return data, nil
}

func (s *FilesystemStorage) Upload(ctx context.Context, objectPath string, data []byte, upsert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !upsert {
		exists, err := afero.Exists(s.fs, objectPath)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", objectPath, err)
		}
		if exists {
			return ErrObjectExists
		}
	}

	if dir := path.Dir(objectPath); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create folder %s: %w", dir, err)
		}
	}

	if err := afero.WriteFile(s.fs, objectPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}
	return nil
}

func (s *FilesystemStorage) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var paths []string
	err := afero.Walk(s.fs, ".", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		clean := strings.TrimPrefix(p, "./")
		if strings.HasPrefix(clean, prefix) {
			paths = append(paths, clean)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list prefix %s: %w", prefix, err)
	}
	return paths, nil
}

func (s *FilesystemStorage) Remove(ctx context.Context, paths ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, p := range paths {
		if err := s.fs.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}
