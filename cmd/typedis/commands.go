package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unkn0wn-root/typedis"
	"github.com/unkn0wn-root/typedis/codec"
)

func (a *app) strings() *typedis.Store[string] {
	return typedis.NewStore[string](a.client, codec.String{})
}

func (a *app) ping(ctx context.Context) error {
	start := time.Now()
	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	fmt.Printf("PONG %s\n", time.Since(start))
	return nil
}

func (a *app) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	v, ok, err := a.strings().Get(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("(nil)")
		return nil
	}
	fmt.Println(v)
	return nil
}

func (a *app) set(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	ttl := fs.Duration("ttl", 0, "Expiry; 0 keeps the key forever")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return errUsage
	}
	if err := a.strings().Set(ctx, fs.Arg(0), fs.Arg(1), *ttl); err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

func (a *app) del(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	return a.client.Remove(ctx, args...)
}

func (a *app) lock(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lock", flag.ContinueOnError)
	ttl := fs.Duration("ttl", 30*time.Second, "Lease duration")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	ok, err := a.client.TryLock(ctx, fs.Arg(0), *ttl)
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("acquired for %s\n", *ttl)
	} else {
		fmt.Println("held by someone else")
	}
	return nil
}

func (a *app) incr(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("incr", flag.ContinueOnError)
	ttl := fs.Duration("ttl", 0, "Window set when the counter is created")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	n, err := a.client.Increment(ctx, fs.Arg(0), *ttl)
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}

func (a *app) push(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("push", flag.ContinueOnError)
	maxItems := fs.Int("max", 0, "Keep at most this many newest items; 0 = unbounded")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return errUsage
	}
	return a.strings().AddInList(ctx, fs.Arg(0), fs.Arg(1), *maxItems)
}

func (a *app) lrange(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("range", flag.ContinueOnError)
	offset := fs.Int("offset", 0, "Index of the first item, newest is 0")
	count := fs.Int("count", typedis.AllItems, "Number of items; -1 reads to the end")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	items, err := a.strings().GetFromList(ctx, fs.Arg(0), *offset, *count)
	if err != nil {
		return err
	}
	for i, it := range items {
		fmt.Printf("%d) %s\n", *offset+i, it)
	}
	return nil
}

func (a *app) reset() error {
	ok, err := a.client.ResetConnectionsPool()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("refused: within cooldown")
		return nil
	}
	fmt.Println("pool rebuilt")
	return nil
}

func (a *app) bench(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	workers := fs.Int("workers", 8, "Concurrent workers")
	n := fs.Int("n", 1000, "Round trips per worker")
	prefix := fs.String("prefix", "typedis:bench:", "Key prefix")
	if err := fs.Parse(args); err != nil || *workers < 1 || *n < 1 {
		return errUsage
	}

	s := a.strings()
	var failed atomic.Int64
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < *workers; w++ {
		key := *prefix + strconv.Itoa(w)
		g.Go(func() error {
			for i := 0; i < *n; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := s.Set(gctx, key, strconv.Itoa(i), time.Minute); err != nil {
					failed.Add(1)
					continue
				}
				if _, _, err := s.Get(gctx, key); err != nil {
					failed.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)
	ops := *workers * *n * 2

	fmt.Printf("%d ops in %s (%.0f ops/s), %d failed\n", ops, elapsed, float64(ops)/elapsed.Seconds(), failed.Load())
	if st := a.client.PoolStats(); st != nil {
		fmt.Printf("pool: total=%d idle=%d hits=%d misses=%d timeouts=%d\n",
			st.TotalConns, st.IdleConns, st.Hits, st.Misses, st.Timeouts)
	}
	return nil
}

func (a *app) serveMetrics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("metrics", flag.ContinueOnError)
	addr := fs.String("addr", ":9121", "Listen address")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.client.Ping(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("serving metrics", zap.String("addr", *addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
