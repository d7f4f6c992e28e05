// Command typedis is an operator tool for a Redis endpoint configured the way
// applications configure typedis.
//
// Usage:
//
//	typedis [-config typedis.yaml] [-debug] <command> [args]
//
//	ping                          round-trip a PING
//	get <key>                     print the string under key
//	set [-ttl 10s] <key> <value>  store a string
//	del <key>...                  delete keys
//	lock [-ttl 30s] <key>         try to take a lease
//	incr [-ttl 1m] <key>          increment a counter
//	push [-max 100] <key> <value> prepend to a bounded list
//	range [-offset 0] [-count -1] <key>
//	reset                         rebuild the connection pool
//	bench [-workers 8] [-n 1000]  run concurrent SET/GET round trips
//	metrics [-addr :9121]         serve pool metrics on /metrics
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/typedis"
	promhooks "github.com/unkn0wn-root/typedis/hooks/prom"
	zaplog "github.com/unkn0wn-root/typedis/log/zap"
)

var Version = "dev"

var errUsage = errors.New("usage")

type app struct {
	client *typedis.Client
	reg    *prometheus.Registry
	log    *zap.Logger
}

func main() {
	fs := flag.NewFlagSet("typedis", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Usage = printUsage
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	switch args[0] {
	case "version":
		fmt.Println("typedis", Version)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	client, err := typedis.New(*cfg, typedis.Options{
		Logger: zaplog.New(logger),
		Hooks:  promhooks.New(reg, ""),
	})
	if err != nil {
		logger.Fatal("failed to create client", zap.Error(err))
	}
	defer func() { _ = client.Shutdown(context.Background()) }()
	reg.MustRegister(promhooks.NewPoolStatsCollector(client, ""))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{client: client, reg: reg, log: logger}
	if err := a.run(ctx, args[0], args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
			os.Exit(2)
		}
		logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "ping":
		return a.ping(ctx)
	case "get":
		return a.get(ctx, args)
	case "set":
		return a.set(ctx, args)
	case "del":
		return a.del(ctx, args)
	case "lock":
		return a.lock(ctx, args)
	case "incr":
		return a.incr(ctx, args)
	case "push":
		return a.push(ctx, args)
	case "range":
		return a.lrange(ctx, args)
	case "reset":
		return a.reset()
	case "bench":
		return a.bench(ctx, args)
	case "metrics":
		return a.serveMetrics(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		return errUsage
	}
}

func loadConfig(path string) (*typedis.Config, error) {
	if path == "" {
		return typedis.DefaultConfig(), nil
	}
	return typedis.LoadConfigFile(path)
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func printUsage() {
	fmt.Fprint(os.Stderr, `typedis - operator tool for typed Redis caches

Usage:
  typedis [-config file] [-debug] <command> [args]

Commands:
  ping                          round-trip a PING
  get <key>                     print the string under key
  set [-ttl 10s] <key> <value>  store a string
  del <key>...                  delete keys
  lock [-ttl 30s] <key>         try to take a lease
  incr [-ttl 1m] <key>          increment a counter
  push [-max 100] <key> <value> prepend to a bounded list
  range [-offset 0] [-count -1] <key>
  reset                         rebuild the connection pool
  bench [-workers 8] [-n 1000]  concurrent SET/GET round trips
  metrics [-addr :9121]         serve pool metrics on /metrics
  version                       print the version
`)
}
