// Package tokenstore persists the session token across client restarts, the
// way the browser build keeps it in local storage.
package tokenstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Key is the fixed storage key for the session token.
const Key = "jwt_token"

// File keeps the token in a single file under the user's config directory.
type File struct {
	path string
}

func NewFile(dir string) *File {
	return &File{path: filepath.Join(dir, Key)}
}

func (f *File) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return string(data), nil
}

func (f *File) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (f *File) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
