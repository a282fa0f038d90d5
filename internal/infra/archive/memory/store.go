// Package memory implements an in-process document archive for tests.
package memory

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"jobcore/internal/archive/core"
)

type object struct {
	data []byte
	info core.Info
}

// Store keeps archived documents in a mutex-guarded map.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
}

var _ core.Store = (*Store)(nil)

// New returns an empty in-memory archive.
func New() *Store {
	return &Store{objects: make(map[string]object)}
}

func (s *Store) Driver() core.Driver { return core.DriverMemory }

func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	if strings.TrimSpace(key) == "" {
		return core.Info{}, fmt.Errorf("empty archive key")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; ok {
		return core.Info{}, fmt.Errorf("%w: %s", core.ErrAlreadyArchived, key)
	}
	digest := sha256.Sum256(data)
	info := core.Info{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: opts.ContentType,
		ETag:        hex.EncodeToString(digest[:]),
		Metadata:    cloneMeta(opts.Metadata),
		ArchivedAt:  time.Now().UTC(),
	}
	s.objects[key] = object{data: data, info: info}
	return info, nil
}

func (s *Store) Get(ctx context.Context, key string) (core.Info, io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return core.Info{}, nil, core.ErrNotFound
	}
	return obj.info, io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *Store) Head(ctx context.Context, key string) (core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return core.Info{}, core.ErrNotFound
	}
	return obj.info, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return false, nil
	}
	delete(s.objects, key)
	return true, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var infos []core.Info
	for key, obj := range s.objects {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			infos = append(infos, obj.info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
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
