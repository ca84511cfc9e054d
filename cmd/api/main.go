package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"salary-portal/internal/app"
	"salary-portal/internal/core/server"
	"salary-portal/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, log, cleanup, err := app.Setup(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	srv := server.FromConfig(cfg.App.HTTP, router.NewAPIEngine(a.Deps()))

	baseURL := server.HumanURL(cfg.App.HTTP)
	log.Info("salary portal starting",
		zap.String("addr", srv.Addr),
		zap.String("form", baseURL+"/"),
		zap.String("admin", baseURL+"/admin"),
		zap.String("health", baseURL+"/health"),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("salary portal stopped with error", zap.Error(err))
		return
	}
	log.Info("salary portal stopped gracefully")
}
