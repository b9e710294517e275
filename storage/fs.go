package storage

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/jhunt/go-log"
)

type FileStore struct {
	Root string
}

func (fs *FileStore) path(key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	return filepath.Join(fs.Root, filepath.FromSlash(key)), nil
}

func (fs *FileStore) Put(key string, b []byte) error {
	path, err := fs.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	log.Debugf("storing %d bytes at %s", len(b), path)
	return ioutil.WriteFile(path, b, 0644)
}

// Delete removes the file stored under key.  Missing files are not an error.
func (fs *FileStore) Delete(key string) error {
	path, err := fs.path(key)
	if err != nil {
		return err
	}

	log.Debugf("removing %s", path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
