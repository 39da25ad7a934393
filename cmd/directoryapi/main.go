package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"adminconsole/infrastructure/audit"
	"adminconsole/infrastructure/config"
	httpserver "adminconsole/infrastructure/http"
	"adminconsole/infrastructure/sqlite"
)

func main() {
	cfg := config.Load()
	cfg.InitLogging()

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	server := httpserver.NewDirectoryServer(cfg.DirectoryAddr, db, audit.NewService(), cfg.DirectoryPageSize)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	slog.Info("directory api listening", slog.String("addr", cfg.DirectoryAddr), slog.String("db", cfg.SQLitePath))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		slog.Error("graceful shutdown error", slog.Any("err", err))
	}
}
