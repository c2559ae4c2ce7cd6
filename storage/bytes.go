package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/kbukum/asreval/errors"
)

// ReadAll downloads the object at path and returns its contents.
func ReadAll(ctx context.Context, s Storage, path string) ([]byte, error) {
	rc, err := s.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// WriteBytes stores data at path.
func WriteBytes(ctx context.Context, s Storage, path string, data []byte) error {
	return s.Upload(ctx, path, bytes.NewReader(data))
}

// UploadFile copies the local file at src to path.
func UploadFile(ctx context.Context, s Storage, path, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return errors.NotFound("file", src).WithCause(err)
	}
	defer f.Close()
	return s.Upload(ctx, path, f)
}

// DownloadFile copies the object at path into the local file dst, creating
// parent directories as needed.
func DownloadFile(ctx context.Context, s Storage, path, dst string) error {
	rc, err := s.Download(ctx, path)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return errors.Internal(err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return errors.Internal(err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		_ = f.Close()
		return errors.Internal(err)
	}
	return f.Close()
}

// DeletePrefix removes every object under prefix and returns how many were
// deleted. It stops at the first failed delete.
func DeletePrefix(ctx context.Context, s Storage, prefix string) (int, error) {
	files, err := s.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, f := range files {
		if err := s.Delete(ctx, f.Path); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
