package server

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind     = "bind"
	flagDebug    = "debug"
	flagLogLevel = "log_level"
	flagMetrics  = "metrics"
)

// parseFlags overrides the values of cfg with the command line flags.
func parseFlags(cfg *Config, args []string) error {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&cfg.Bind, flagBind, cfg.Bind, "address server listens on")
	startFlags.BoolVar(&cfg.Debug, flagDebug, cfg.Debug, "call stack returned on error")
	startFlags.StringVar(&cfg.LogLevel, flagLogLevel, cfg.LogLevel, "one of debug, info, error or none")
	startFlags.StringVar(&cfg.MetricsBind, flagMetrics, cfg.MetricsBind, "address metrics are served on, empty to disable")
	if err := startFlags.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags. Collectors of the
// application are registered with reg.
type AppGenerator func(home, dbName string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error)

// StartCmd initializes the application and runs the abci server until
// the process receives SIGTERM or SIGINT.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	cfg, err := LoadConfig(ConfigPath(home))
	if err != nil {
		return err
	}
	if err := parseFlags(cfg, args); err != nil {
		return err
	}
	logger, err = filterLogger(logger, cfg.LogLevel)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	app, err := gen(home, cfg.DBName, logger, cfg.Debug, reg)
	if err != nil {
		return err
	}

	var metrics *http.Server
	if cfg.MetricsBind != "" {
		metrics = serveMetrics(cfg.MetricsBind, reg, logger.With("module", "metrics"))
	}

	logger.Info("Starting ABCI app", "bind", cfg.Bind)
	svr, err := server.NewServer(cfg.Bind, "socket", app)
	if err != nil {
		return fmt.Errorf("Error creating listener: %v\n", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return err
	}

	// Stop upon receiving SIGTERM or CTRL-C.
	cmn.TrapSignal(logger, func() {
		svr.Stop()
		if metrics != nil {
			metrics.Close()
		}
	})

	// Run forever.
	select {}
}

func filterLogger(logger log.Logger, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}

// serveMetrics exposes everything registered with reg under /metrics.
func serveMetrics(addr string, reg *prometheus.Registry, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("Serving metrics", "bind", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server stopped", "err", err)
		}
	}()
	return srv
}
