package storage

import (
	"fmt"
	"strings"
)

// A Store holds post attachments, addressed by opaque keys.
type Store interface {
	Put(key string, b []byte) error
	Delete(key string) error
}

type Config struct {
	Type string   `yaml:"type"`
	Root string   `yaml:"root"`
	S3   S3Config `yaml:"s3"`
}

// New returns the Store described by c.  An empty type means "fs".
func New(c Config) (Store, error) {
	switch c.Type {
	case "", "fs":
		if c.Root == "" {
			return nil, fmt.Errorf("fs storage requires a root directory")
		}
		return &FileStore{Root: c.Root}, nil

	case "s3":
		return NewS3Store(c.S3)
	}
	return nil, fmt.Errorf("unrecognized storage type '%s'", c.Type)
}

func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty storage key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return fmt.Errorf("invalid storage key '%s'", key)
	}
	return nil
}
