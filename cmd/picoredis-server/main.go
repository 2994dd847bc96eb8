package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/picoredis/picoredis/internal/config"
	"github.com/picoredis/picoredis/internal/executor"
	"github.com/picoredis/picoredis/internal/server"
)

func main() {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("main")

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal("bad configuration", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal("failed to create data directory", zap.String("dir", cfg.DataDir), zap.Error(err))
	}

	exec := executor.New(cfg.DataDir, log)

	var flushInterval time.Duration
	if cfg.PeriodicFlushEnabled {
		flushInterval = time.Duration(cfg.PeriodicFlushSeconds * float32(time.Second))
	}
	go exec.Run(flushInterval)

	srv := server.New(exec, log)
	addr := net.JoinHostPort(cfg.BindHost, strconv.Itoa(int(cfg.Port)))
	if err := srv.Listen(addr); err != nil {
		log.Fatal("failed to bind listener", zap.String("addr", addr), zap.Error(err))
	}
	log.Info("listening", zap.String("addr", addr))

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			log.Error("accept loop failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown did not complete cleanly", zap.Error(err))
	}
	if err := exec.Shutdown(); err != nil {
		log.Fatal("final persistence flush failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}
