package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

type Site struct {
	URL                string `yaml:"url"`
	Board              string `yaml:"board,omitempty"`
	InsecureSkipVerify bool   `yaml:"skip_verify,omitempty"`
	CACertificate      string `yaml:"cacert,omitempty"`
}

type Config struct {
	Path    string           `yaml:"-"`
	Current string           `yaml:"current,omitempty"`
	Sites   map[string]*Site `yaml:"sites"`
}

func newConfig(path string) *Config {
	return &Config{
		Path:  path,
		Sites: map[string]*Site{},
	}
}

func ReadConfig(path string) (*Config, error) {
	cfg := newConfig(path)

	b, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	if cfg.Sites == nil {
		cfg.Sites = map[string]*Site{}
	}
	return cfg, nil
}

func (c *Config) Write() error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(c.Path, b, 0600)
}

// Site returns the named site, or the current one if alias is empty.
func (c *Config) Site(alias string) (*Site, error) {
	if alias == "" {
		alias = c.Current
	}
	if alias == "" {
		return nil, nil
	}
	if site, ok := c.Sites[alias]; ok {
		return site, nil
	}
	return nil, fmt.Errorf("Unknown mcweb site '%s'", alias)
}

func (c *Config) Add(alias string, site Site) {
	c.Sites[alias] = &site
}
