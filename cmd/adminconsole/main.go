package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adminconsole/frontend/console"
	"adminconsole/infrastructure/cache"
	"adminconsole/infrastructure/config"
	"adminconsole/infrastructure/directory"
	httpserver "adminconsole/infrastructure/http"
	"adminconsole/infrastructure/mutation"
)

func main() {
	cfg := config.Load()
	cfg.InitLogging()

	client, err := directory.NewClient(cfg.DirectoryAPIURL, cfg.DirectoryTimeout)
	if err != nil {
		log.Fatalf("directory client: %v", err)
	}

	queries := cache.NewQueryCache()
	queries.SetStaleTime(cache.KindPaginated, cfg.PageStale)
	queries.SetStaleTime(cache.KindMap, cfg.RoleLookupStale)
	queries.SetGCTime(cfg.QueryGC)

	sessions := cache.NewSessionCache[*console.Session](cfg.SessionIdle)
	deps := console.Deps{
		Directory: client,
		Cache:     queries,
		Mutations: mutation.NewExecutor(client, queries),
		Debounce:  cfg.SearchDebounce,
	}

	server := httpserver.NewConsoleServer(cfg.ConsoleAddr, deps, sessions)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	slog.Info("admin console listening", slog.String("addr", cfg.ConsoleAddr), slog.String("directory", cfg.DirectoryAPIURL))

	stop := make(chan struct{})
	go sweepEvery(cfg.SessionIdle, stop, func() {
		if n := sessions.Sweep(); n > 0 {
			slog.Debug("evicted idle console sessions", slog.Int("count", n))
		}
	})
	go sweepEvery(cfg.QueryGC, stop, func() {
		if n := queries.Sweep(); n > 0 {
			slog.Debug("dropped unused query cache entries", slog.Int("count", n))
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	close(stop)

	if err := server.Stop(); err != nil {
		slog.Error("graceful shutdown error", slog.Any("err", err))
	}
}

// sweepEvery runs sweep a few times per idle period until stop is closed.
func sweepEvery(idle time.Duration, stop <-chan struct{}, sweep func()) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(max(idle/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-stop:
			return
		}
	}
}
