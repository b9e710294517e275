package main

import (
	"os"

	fmt "github.com/jhunt/go-ansi"
	"github.com/jhunt/go-cli"
	env "github.com/jhunt/go-envirotron"
	"github.com/jhunt/go-log"

	// sql drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/macaba/mcweb/core"
)

var Version = ""

type Options struct {
	Help    bool   `cli:"-h, --help"`
	Version bool   `cli:"-v, --version"`
	Config  string `cli:"-c, --config" env:"MCWEB_CONFIG"`
	Log     string `cli:"-l, --log-level" env:"MCWEB_LOG_LEVEL"`
	Debug   bool   `cli:"-D, --debug" env:"MCWEB_DEBUG"`
}

func main() {
	opts := Options{
		Log: "info",
	}
	env.Override(&opts)

	_, args, err := cli.Parse(&opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "@R{!!! %s}\n", err)
		os.Exit(1)
	}
	if len(args) != 0 {
		fmt.Fprintf(os.Stderr, "@R{!!! extra arguments found}\n")
		os.Exit(1)
	}

	if opts.Help {
		fmt.Printf("USAGE: @G{mcwebd} -c @Y{/path/to/config.yml} [-l @Y{LEVEL}]\n")
		fmt.Printf("\n")
		fmt.Printf("  -c, --config     Path to the mcwebd configuration file. (@W{$MCWEB_CONFIG})\n")
		fmt.Printf("  -l, --log-level  Log verbosity: debug, info, warning, or error. (@W{$MCWEB_LOG_LEVEL})\n")
		fmt.Printf("  -D, --debug      Include server-side diagnostics in API errors. (@W{$MCWEB_DEBUG})\n")
		fmt.Printf("  -v, --version    Print the version and exit.\n")
		fmt.Printf("\n")
		os.Exit(0)
	}

	if opts.Version {
		if Version == "" || Version == "dev" {
			fmt.Printf("mcwebd (development)\n")
		} else {
			fmt.Printf("mcwebd v%s\n", Version)
		}
		os.Exit(0)
	}

	if opts.Config == "" {
		fmt.Fprintf(os.Stderr, "@R{No config specified.} Please try again using the @Y{-c/--config} argument\n")
		os.Exit(1)
	}

	log.SetupLogging(log.LogConfig{
		Type:  "console",
		Level: opts.Log,
	})
	log.Infof("starting mcweb daemon")

	config, err := core.ReadConfig(opts.Config)
	if err != nil {
		log.Errorf("failed to read configuration from %s: %s", opts.Config, err)
		os.Exit(1)
	}
	if opts.Debug {
		config.Debug = true
	}

	if Version != "" {
		core.Version = Version
	}
	c, err := core.New(config)
	if err != nil {
		log.Errorf("failed to configure mcweb core: %s", err)
		os.Exit(1)
	}

	c.Main()
}
