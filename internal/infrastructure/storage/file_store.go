package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/spf13/afero"

	"github.com/jhoicas/stock-scanner/internal/domain/repository"
)

var _ repository.KVStore = (*FileStore)(nil)

var validKey = regexp.MustCompile(`^[a-z0-9_]+$`)

// FileStore KVStore sobre un sistema de archivos afero: un archivo <key>.json por clave.
// Con afero.NewOsFs() es el almacenamiento del dispositivo; con afero.NewMemMapFs() vive en memoria.
type FileStore struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// NewFileStore crea el directorio si no existe.
func NewFileStore(fsys afero.Fs, dir string) (*FileStore, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos %s: %w", dir, err)
	}
	return &FileStore{fs: fsys, dir: dir}, nil
}

// NewMemoryStore FileStore sobre un sistema de archivos en memoria.
func NewMemoryStore() *FileStore {
	return &FileStore{fs: afero.NewMemMapFs(), dir: "/"}
}

// Get lee el blob de la clave; found=false si el archivo no existe.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("leer %s: %w", path, err)
	}
	return data, true, nil
}

// Set escribe en un archivo temporal y lo renombra, para no dejar blobs a medias.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("renombrar %s: %w", tmp, err)
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("clave inválida %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
