package kvstore

import (
	"context"
	"errors"
	"net/url"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/storage"
)

// FileStore keeps one JSON file per key under a directory.
type FileStore struct {
	files *storage.LocalStorage
}

// NewFileStore opens (and creates) dir.
func NewFileStore(dir string) (*FileStore, error) {
	files, err := storage.NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	return &FileStore{files: files}, nil
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := f.files.Read(fileName(key))
	if errors.Is(err, storage.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (f *FileStore) Put(_ context.Context, key string, value []byte) error {
	_, err := f.files.Save(fileName(key), value)
	return err
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	return f.files.Delete(fileName(key))
}

func (f *FileStore) Close() error { return nil }

// keys are escaped so a key can never name a path outside the directory.
func fileName(key string) string {
	return url.PathEscape(key) + ".json"
}
