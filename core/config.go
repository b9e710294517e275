package core

import (
	"fmt"
	"io/ioutil"
	"regexp"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v2"

	"github.com/macaba/mcweb/markup"
	"github.com/macaba/mcweb/storage"
)

type PrometheusConfig struct {
	Namespace string `yaml:"namespace"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Realm     string `yaml:"realm"`
}

type MbusConfig struct {
	MaxSlots int `yaml:"max_slots"`
	Backlog  int `yaml:"backlog"`
}

type Config struct {
	Addr     string `yaml:"listen_addr"`
	Driver   string `yaml:"database_driver"`
	Database string `yaml:"database_dsn"`
	Debug    bool   `yaml:"debug"`

	Boards      []string `yaml:"boards"`
	Markup      string   `yaml:"markup"`
	BcryptCost  int      `yaml:"bcrypt_cost"`
	MaxFileSize int      `yaml:"max_file_size"`

	Storage    storage.Config   `yaml:"storage"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
	Mbus       MbusConfig       `yaml:"mbus"`
}

var boardName = regexp.MustCompile(`^[a-z0-9]{1,16}$`)

// DefaultConfig is the configuration that ReadConfig starts from.
func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		Driver:   "sqlite3",
		Database: "mcweb.db",

		Boards:      []string{"b"},
		Markup:      markup.Wakaba,
		BcryptCost:  bcrypt.DefaultCost,
		MaxFileSize: 4 * 1024 * 1024,

		Storage: storage.Config{
			Type: "fs",
			Root: "files",
		},

		Mbus: MbusConfig{
			MaxSlots: 64,
			Backlog:  100,
		},
	}
}

func ReadConfig(file string) (Config, error) {
	config := DefaultConfig()

	/* optionally read configuration from a file */
	if file != "" {
		b, err := ioutil.ReadFile(file)
		if err != nil {
			return config, err
		}

		if err = yaml.Unmarshal(b, &config); err != nil {
			return config, err
		}
	}

	return config, config.Validate()
}

func (config Config) Validate() error {
	if config.Addr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if config.Driver != "sqlite3" && config.Driver != "mysql" {
		return fmt.Errorf("database_driver '%s' is invalid (must be one of sqlite3 or mysql)", config.Driver)
	}
	if config.Database == "" {
		return fmt.Errorf("database_dsn is required")
	}

	if len(config.Boards) == 0 {
		return fmt.Errorf("at least one board must be configured")
	}
	seen := make(map[string]bool)
	for _, b := range config.Boards {
		if !boardName.MatchString(b) {
			return fmt.Errorf("board name '%s' is invalid (must be 1-16 lowercase letters or digits)", b)
		}
		if seen[b] {
			return fmt.Errorf("board '%s' is configured more than once", b)
		}
		seen[b] = true
	}

	if !markup.Valid(config.Markup) {
		return fmt.Errorf("markup engine '%s' is invalid (must be one of %v)", config.Markup, markup.Engines)
	}
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost value '%d' is invalid (must be between %d and %d)", config.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if config.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size value '%d' is invalid (must be greater than zero)", config.MaxFileSize)
	}
	if config.Mbus.MaxSlots <= 0 {
		return fmt.Errorf("mbus.max_slots value '%d' is invalid (must be greater than zero)", config.Mbus.MaxSlots)
	}
	if config.Mbus.Backlog <= 0 {
		return fmt.Errorf("mbus.backlog value '%d' is invalid (must be greater than zero)", config.Mbus.Backlog)
	}

	return nil
}
