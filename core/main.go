package core

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/jhunt/go-log"

	"github.com/macaba/mcweb/core/bus"
	"github.com/macaba/mcweb/core/metrics"
)

func (c *Core) Main() {
	/* print out our configuration */
	c.PrintConfiguration()

	/* we need a usable database first */
	c.MaybeTerminate(c.Setup())
	go c.metrics.Watch(bus.Everyone)

	log.Infof("INITIALIZATION COMPLETE; binding the mcweb API on %s...", c.Config.Addr)
	if err := http.ListenAndServe(c.Config.Addr, c.Handler()); err != nil {
		c.Terminate(fmt.Errorf("mcweb API failed: %s", err))
	}
}

// Handler serves the REST API and the Prometheus metrics endpoint.
func (c *Core) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/rest/", c.API())
	mux.Handle("/metrics", c.metrics.Handler())
	return mux
}

func (c *Core) PrintConfiguration() {
	log.Infof("CONFIG | mcweb version:     %s", Version)
	log.Infof("CONFIG | api bind:          '%s'", c.Config.Addr)
	log.Infof("CONFIG | database:          %s '%s'", c.Config.Driver, sanitize(c.Config.Database))
	log.Infof("CONFIG | boards:            %v", c.Config.Boards)
	log.Infof("CONFIG | markup engine:     %s", c.Config.Markup)
	log.Infof("CONFIG | bcrypt cost:       %d", c.Config.BcryptCost)
	log.Infof("CONFIG | max file size:     %d bytes", c.Config.MaxFileSize)
	switch c.Config.Storage.Type {
	case "s3":
		log.Infof("CONFIG | storage:           s3 bucket '%s'", c.Config.Storage.S3.Bucket)
	default:
		log.Infof("CONFIG | storage:           filesystem at '%s'", c.Config.Storage.Root)
	}
	log.Infof("CONFIG | mbus max clients:  %d", c.Config.Mbus.MaxSlots)
	log.Infof("CONFIG | mbus backlog:      %d events", c.Config.Mbus.Backlog)
	log.Infof("")
}

var (
	reDSNUserPass = regexp.MustCompile(`(.*://.*?:)(.*?)(@.*)`)
	reDSNMySQL    = regexp.MustCompile(`^([^:/@]*:)([^@]*)(@.*)$`)
)

// sanitize masks the password in a database DSN, for logging.
func sanitize(s string) string {
	for _, re := range []*regexp.Regexp{reDSNUserPass, reDSNMySQL} {
		if m := re.FindStringSubmatch(s); m != nil {
			replace := m[1]
			for range m[2] {
				replace += "*"
			}
			replace += m[3]
			return replace
		}
	}
	return s
}

func (c *Core) ConnectToDatabase() error {
	log.Infof("INITIALIZING: connecting to the database...")
	if c.db.Connected() {
		log.Alertf("ANOMALY: tried to connect to database, but we're already connected...")
		return nil
	}

	log.Debugf("connecting to %s database at %s...", c.Config.Driver, sanitize(c.Config.Database))
	if err := c.db.Connect(); err != nil {
		return fmt.Errorf("failed to connect to %s database at %s: %s", c.Config.Driver, sanitize(c.Config.Database), err)
	}

	log.Infof("INITIALIZING: deploying database schema...")
	if err := c.db.Setup(); err != nil {
		return fmt.Errorf("failed to set up schema in database: %s", err)
	}

	log.Debugf("connected successfully to database!")
	return nil
}

func (c *Core) InitializePrometheus() error {
	total := 0
	for _, b := range c.Config.Boards {
		n, err := c.db.CountPosts(b)
		if err != nil {
			return fmt.Errorf("failed to count posts on /%s/: %s", b, err)
		}
		total += int(n)
	}

	c.metrics = metrics.New(&metrics.Exporter{
		Username:  c.Config.Prometheus.Username,
		Password:  c.Config.Prometheus.Password,
		Realm:     c.Config.Prometheus.Realm,
		Namespace: c.Config.Prometheus.Namespace,

		PostCount: total,
	})
	return nil
}

func (c *Core) ConfigureMessageBus() {
	log.Infof("INITIALIZING: configuring message bus with %d slots and %d backlog per slot...", c.Config.Mbus.MaxSlots, c.Config.Mbus.Backlog)
	c.bus = bus.New(c.Config.Mbus.MaxSlots, c.Config.Mbus.Backlog)
	c.metrics.Inform(c.bus)
}
