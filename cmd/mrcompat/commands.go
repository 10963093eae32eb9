package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/graingert/mrjob/internal/api/rest"
	"github.com/graingert/mrjob/internal/jobconf"
	"github.com/graingert/mrjob/internal/shared/config"
	"github.com/graingert/mrjob/internal/shared/logging"
	"github.com/graingert/mrjob/pkg/compat"
)

const shutdownTimeout = 10 * time.Second

func newVersionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "version",
		Usage:   "Hadoop version (defaults to hadoop.version from the config)",
		Aliases: []string{"V"},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("failed to load config: %v", err), 2)
	}
	return cfg, nil
}

// hadoopVersion returns the --version flag, falling back to the configured
// default.
func hadoopVersion(c *cli.Context) (string, error) {
	if v := c.String("version"); v != "" {
		return v, nil
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return "", err
	}
	return cfg.Hadoop.Version, nil
}

func createTranslateCommand() *cli.Command {
	return &cli.Command{
		Name:      "translate",
		Usage:     "Translate jobconf keys for a Hadoop version",
		ArgsUsage: "KEY...",
		Flags:     []cli.Flag{newVersionFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one jobconf key is required", 2)
			}
			version, err := hadoopVersion(c)
			if err != nil {
				return err
			}
			for _, key := range c.Args().Slice() {
				fmt.Fprintln(c.App.Writer, compat.TranslateJobConf(key, version))
			}
			return nil
		},
	}
}

func createSupportsCommand() *cli.Command {
	return &cli.Command{
		Name:      "supports",
		Usage:     "Show which capabilities a Hadoop version supports",
		ArgsUsage: "[CAPABILITY]",
		Description: `Without arguments, prints every capability and whether it is supported.
With a capability name, prints true or false and exits with status 1 when
the capability is unsupported.

Examples:
  mrcompat supports -V 0.20
  mrcompat supports -V 0.20.203 new-distributed-cache`,
		Flags: []cli.Flag{newVersionFlag()},
		Action: func(c *cli.Context) error {
			version, err := hadoopVersion(c)
			if err != nil {
				return err
			}

			if c.NArg() == 0 {
				supported := compat.SupportedCapabilities(version)
				for _, name := range compat.Capabilities() {
					fmt.Fprintf(c.App.Writer, "%s\t%t\n", name, supported[name])
				}
				return nil
			}

			predicate, err := compat.Capability(c.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("%v (available: %v)", err, compat.Capabilities()), 2)
			}
			ok := predicate(version)
			fmt.Fprintln(c.App.Writer, ok)
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func createEnvCommand() *cli.Command {
	var def string

	return &cli.Command{
		Name:      "env",
		Usage:     "Read a jobconf value from the environment under any of its spellings",
		ArgsUsage: "KEY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "default",
				Usage:       "Value to print when the key is not set",
				Aliases:     []string{"d"},
				Destination: &def,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("exactly one jobconf key is required", 2)
			}
			value, ok := compat.JobConfFromEnv(compat.OSEnv, c.Args().First())
			if !ok {
				if !c.IsSet("default") {
					return cli.Exit("", 1)
				}
				value = def
			}
			fmt.Fprintln(c.App.Writer, value)
			return nil
		},
	}
}

func createJobConfCommand() *cli.Command {
	return &cli.Command{
		Name:      "jobconf",
		Usage:     "Load jobconf files and translate them for a Hadoop version",
		ArgsUsage: "[KEY]",
		Description: `Loads YAML, JSON or HCL jobconf files matched by the --files patterns.
Without arguments, prints the merged jobconf translated for the Hadoop
version as JSON. With a key, prints that key's value under any spelling.

Examples:
  mrcompat jobconf -f 'conf/**/*.yaml' -V 1.0
  mrcompat jobconf -f conf/job.hcl mapreduce.job.reduces`,
		Flags: []cli.Flag{
			newVersionFlag(),
			&cli.StringSliceFlag{
				Name:     "files",
				Usage:    "Glob patterns of jobconf files",
				Aliases:  []string{"f"},
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			conf, err := jobconf.Load(c.StringSlice("files"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to load jobconf: %v", err), 2)
			}

			if c.NArg() > 0 {
				value, ok := compat.JobConfFromMap(conf, c.Args().First())
				if !ok {
					return cli.Exit("", 1)
				}
				fmt.Fprintln(c.App.Writer, value)
				return nil
			}

			version, err := hadoopVersion(c)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(compat.TranslateJobConfMap(conf, version))
		},
	}
}

func createServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve version and jobconf lookups over HTTP",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			level, err := logging.ParseLevel(cfg.Logging.Level)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			logger := logging.NewSlogLogger(level, cfg.Logging.Format, os.Stdout)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			srv := rest.NewServer(cfg.REST, cfg.Hadoop.Version, logger, reg)
			return runServer(c.Context, srv, logger)
		},
	}
}

func runServer(ctx context.Context, srv *http.Server, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("REST server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("REST server failed", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down REST server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
