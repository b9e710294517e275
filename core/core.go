package core

import (
	"fmt"
	"os"

	"github.com/jhunt/go-log"

	"github.com/macaba/mcweb/core/bus"
	"github.com/macaba/mcweb/core/metrics"
	"github.com/macaba/mcweb/db"
	"github.com/macaba/mcweb/storage"
)

var Version = "(development)"

type Core struct {
	Config Config

	db      *db.DB
	store   storage.Store
	bus     *bus.Bus
	metrics *metrics.Exporter
	boards  map[string]bool
}

func New(config Config) (*Core, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.New(config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to configure attachment storage: %s", err)
	}

	c := &Core{
		Config: config,
		store:  store,
		boards: make(map[string]bool),
		db: &db.DB{
			Driver: config.Driver,
			DSN:    config.Database,
		},
	}
	for _, b := range config.Boards {
		c.boards[b] = true
	}

	return c, nil
}

func (c *Core) Terminate(err error) {
	log.Alertf("mcweb terminating abnormally: %s\n", err)
	os.Exit(3)
}

func (c *Core) MaybeTerminate(err error) {
	if err != nil {
		c.Terminate(err)
	}
}

// Setup readies the database, metrics and message bus.  It must be called
// before the API is served.
func (c *Core) Setup() error {
	if err := c.ConnectToDatabase(); err != nil {
		return err
	}
	if err := c.InitializePrometheus(); err != nil {
		return err
	}
	c.ConfigureMessageBus()
	return nil
}

func (c *Core) Shutdown() error {
	return c.db.Disconnect()
}
