package storage

import (
	"fmt"
	"strings"

	"github.com/jhunt/go-log"
	"github.com/jhunt/go-s3"
)

type S3Config struct {
	Host             string `yaml:"host"`
	Bucket           string `yaml:"bucket"`
	Region           string `yaml:"region"`
	AccessKey        string `yaml:"access_key"`
	SecretKey        string `yaml:"secret_key"`
	PathPrefix       string `yaml:"prefix"`
	SignatureVersion int    `yaml:"signature_version"`
	SkipVerify       bool   `yaml:"skip_ssl_validation"`
}

type S3Store struct {
	prefix string
	client *s3.Client
}

func NewS3Store(c S3Config) (*S3Store, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires a bucket")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return nil, fmt.Errorf("s3 storage requires an access key and a secret key")
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}

	client, err := s3.NewClient(&s3.Client{
		SignatureVersion:   c.SignatureVersion,
		AccessKeyID:        c.AccessKey,
		SecretAccessKey:    c.SecretKey,
		Region:             c.Region,
		Domain:             c.Host,
		Bucket:             c.Bucket,
		InsecureSkipVerify: c.SkipVerify,
	})
	if err != nil {
		return nil, err
	}

	return &S3Store{
		prefix: strings.Trim(c.PathPrefix, "/"),
		client: client,
	}, nil
}

func (s *S3Store) path(key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	if s.prefix == "" {
		return key, nil
	}
	return s.prefix + "/" + key, nil
}

func (s *S3Store) Put(key string, b []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	log.Debugf("uploading %d bytes to s3 at %s", len(b), path)
	up, err := s.client.NewUpload(path, nil)
	if err != nil {
		return err
	}
	if err := up.Write(b); err != nil {
		return err
	}
	return up.Done()
}

func (s *S3Store) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	log.Debugf("deleting s3 object %s", path)
	return s.client.Delete(path)
}
