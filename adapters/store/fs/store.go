// Package storefs provides filesystem-backed artifact storage. Writes go
// through a temp file and rename, so a failed export never leaves a partial
// document at the output path.
package storefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-e2w/e2w"
)

// Store provides filesystem-backed artifact storage.
type Store struct {
	Root string
	Now  func() time.Time
}

// NewStore creates a filesystem-backed artifact store.
func NewStore(root string) *Store {
	return &Store{Root: root, Now: time.Now}
}

// Put stores an artifact on disk.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, meta e2w.ArtifactMeta) (e2w.ArtifactRef, error) {
	_ = ctx
	if s == nil {
		return e2w.ArtifactRef{}, e2w.NewError(e2w.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return e2w.ArtifactRef{}, e2w.NewError(e2w.KindValidation, "store root is required", nil)
	}
	if key == "" {
		return e2w.ArtifactRef{}, e2w.NewError(e2w.KindValidation, "artifact key is required", nil)
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return e2w.ArtifactRef{}, err
	}

	dir := filepath.Dir(pathOnDisk)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return e2w.ArtifactRef{}, err
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return e2w.ArtifactRef{}, err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return e2w.ArtifactRef{}, err
	}
	if err := tmp.Sync(); err != nil {
		return e2w.ArtifactRef{}, err
	}
	if err := tmp.Close(); err != nil {
		return e2w.ArtifactRef{}, err
	}

	if err := os.Rename(tmp.Name(), pathOnDisk); err != nil {
		return e2w.ArtifactRef{}, err
	}

	meta.Size = size
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}

	if err := s.writeMeta(pathOnDisk, meta); err != nil {
		return e2w.ArtifactRef{}, err
	}

	return e2w.ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads an artifact from disk.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, e2w.ArtifactMeta, error) {
	_ = ctx
	if s == nil {
		return nil, e2w.ArtifactMeta{}, e2w.NewError(e2w.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return nil, e2w.ArtifactMeta{}, e2w.NewError(e2w.KindValidation, "store root is required", nil)
	}
	if key == "" {
		return nil, e2w.ArtifactMeta{}, e2w.NewError(e2w.KindValidation, "artifact key is required", nil)
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return nil, e2w.ArtifactMeta{}, err
	}

	file, err := os.Open(pathOnDisk)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, e2w.ArtifactMeta{}, e2w.NewError(e2w.KindNotFound, fmt.Sprintf("artifact %q not found", key), err)
		}
		return nil, e2w.ArtifactMeta{}, err
	}

	meta := s.readMeta(pathOnDisk)
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}
	if meta.Size == 0 {
		if info, err := file.Stat(); err == nil {
			meta.Size = info.Size()
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = info.ModTime()
			}
		}
	}

	return file, meta, nil
}

// Delete removes an artifact from disk.
func (s *Store) Delete(ctx context.Context, key string) error {
	_ = ctx
	if s == nil {
		return e2w.NewError(e2w.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return e2w.NewError(e2w.KindValidation, "store root is required", nil)
	}
	if key == "" {
		return e2w.NewError(e2w.KindValidation, "artifact key is required", nil)
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return err
	}
	_ = os.Remove(pathOnDisk)
	_ = os.Remove(metaPath(pathOnDisk))
	return nil
}

func (s *Store) resolvePath(key string) (string, error) {
	clean := path.Clean("/" + key)
	rel := strings.TrimPrefix(clean, "/")
	if rel == "" || rel == "." {
		return "", e2w.NewError(e2w.KindValidation, "invalid artifact key", nil)
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) && target != root {
		return "", e2w.NewError(e2w.KindValidation, "artifact key escapes root", nil)
	}
	return target, nil
}

func (s *Store) writeMeta(pathOnDisk string, meta e2w.ArtifactMeta) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	dir := filepath.Dir(pathOnDisk)
	tmp, err := os.CreateTemp(dir, ".meta-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(payload); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), metaPath(pathOnDisk))
}

func (s *Store) readMeta(pathOnDisk string) e2w.ArtifactMeta {
	payload, err := os.ReadFile(metaPath(pathOnDisk))
	if err != nil {
		return e2w.ArtifactMeta{}
	}
	var meta e2w.ArtifactMeta
	if err := json.Unmarshal(payload, &meta); err != nil {
		return e2w.ArtifactMeta{}
	}
	return meta
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func metaPath(pathOnDisk string) string {
	return pathOnDisk + ".meta.json"
}
