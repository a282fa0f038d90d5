// Package fs implements the document archive on a local or shared
// directory. Each document is a data file plus a sidecar holding its
// attributes; writes go through a temp file and rename so a crashed
// archive pass never leaves a half-written document behind.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"jobcore/internal/archive/core"
)

const (
	sidecarExt = ".meta"
	defaultDir = "./archive"
)

// Store archives documents under a root directory.
type Store struct {
	root string
}

var _ core.Store = (*Store)(nil)

// New returns a filesystem archive rooted at path, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = defaultDir
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// sanitizeKey forbids traversal out of the archive root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty archive key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid archive key %q", key)
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid archive key %q", key)
	}
	return clean, nil
}

func (s *Store) pathFor(key string) (dataPath, sidecarPath string, err error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, filepath.FromSlash(k))
	sidecarPath = dataPath + sidecarExt
	return dataPath, sidecarPath, nil
}

type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	ArchivedAt  time.Time         `json:"archived_at"`
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	dataPath, sidecarPath, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return core.Info{}, fmt.Errorf("%w: %s", core.ErrAlreadyArchived, key)
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return core.Info{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".archive-*")
	if err != nil {
		return core.Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	digest := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, digest), r)
	if err != nil {
		_ = tmp.Close()
		return core.Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return core.Info{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return core.Info{}, err
	}
	now := time.Now().UTC()
	sc := sidecar{
		ContentType: opts.ContentType,
		Metadata:    cloneMeta(opts.Metadata),
		ETag:        hex.EncodeToString(digest.Sum(nil)),
		Size:        size,
		ArchivedAt:  now,
	}
	b, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return core.Info{}, err
	}
	if err := os.WriteFile(sidecarPath, b, 0o644); err != nil {
		return core.Info{}, err
	}
	return s.infoFor(key, sc), nil
}

func (s *Store) Get(ctx context.Context, key string) (core.Info, io.ReadCloser, error) {
	dataPath, sidecarPath, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	file, err := os.Open(dataPath)
	if errors.Is(err, iofs.ErrNotExist) {
		return core.Info{}, nil, core.ErrNotFound
	}
	if err != nil {
		return core.Info{}, nil, err
	}
	sc, err := readSidecar(sidecarPath)
	if err != nil {
		_ = file.Close()
		return core.Info{}, nil, err
	}
	return s.infoFor(key, sc), file, nil
}

func (s *Store) Head(ctx context.Context, key string) (core.Info, error) {
	_, sidecarPath, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, err
	}
	sc, err := readSidecar(sidecarPath)
	if errors.Is(err, iofs.ErrNotExist) {
		return core.Info{}, core.ErrNotFound
	}
	if err != nil {
		return core.Info{}, err
	}
	return s.infoFor(key, sc), nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	dataPath, sidecarPath, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(dataPath); errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	if err := os.Remove(dataPath); err != nil {
		return false, err
	}
	_ = os.Remove(sidecarPath)
	return true, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	var infos []core.Info
	err := filepath.WalkDir(s.root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, sidecarExt) {
			return nil
		}
		sc, err := readSidecar(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, strings.TrimSuffix(path, sidecarExt))
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix == "" || strings.HasPrefix(key, prefix) {
			infos = append(infos, s.infoFor(key, sc))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (s *Store) infoFor(key string, sc sidecar) core.Info {
	return core.Info{
		Key:         key,
		Size:        sc.Size,
		ContentType: sc.ContentType,
		ETag:        sc.ETag,
		Metadata:    cloneMeta(sc.Metadata),
		ArchivedAt:  sc.ArchivedAt,
	}
}

func readSidecar(path string) (sidecar, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return sidecar{}, err
	}
	var sc sidecar
	if err := json.Unmarshal(b, &sc); err != nil {
		return sidecar{}, err
	}
	return sc, nil
}

func cloneMeta(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
