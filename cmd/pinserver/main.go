package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/headpin-io/headpin-app/gpio"
	"github.com/headpin-io/headpin-app/internal/logutil"
	"github.com/headpin-io/headpin-app/journal"
	"github.com/headpin-io/headpin-app/server"
	"github.com/headpin-io/headpin-app/store"
)

func main() {
	addr := flag.String("addr", ":8080", "address to serve the http api on")
	dbPath := flag.String("db", "headpin.db", "path of the preset database")
	journalDir := flag.String("journal-dir", "", "directory for the on-disk event journal (in-memory when empty)")
	poll := flag.Duration("poll", time.Second, "input pin sample interval (0 disables the watcher)")
	applyDefault := flag.Bool("apply-default", false, "apply the stored default preset on startup")
	logLevel := flag.String("loglevel", "info", "log level: debug, info, warn or error")
	flag.Parse()

	logger := logutil.NewAtLevel(*logLevel)

	st, err := store.OpenBBolt(*dbPath, 0666, nil)
	if err != nil {
		logger.WithError(err).Fatal("unable to open preset store")
	}

	options := badger.DefaultOptions("").WithInMemory(true)
	if *journalDir != "" {
		options = badger.DefaultOptions(*journalDir)
	}

	jnl, err := journal.OpenBadger(options)
	if err != nil {
		logger.WithError(err).Fatal("unable to open journal")
	}

	if !gpio.SysfsSupported() {
		logger.Warn("sysfs gpio not available on this platform, pin state is in-memory only")
	}

	device := gpio.NewDevice(gpio.Config{Logger: logger})
	defer device.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.Server{
		Addr:         *addr,
		Device:       device,
		Store:        st,
		Journal:      jnl,
		Logger:       logger,
		PollInterval: *poll,
		ApplyDefault: *applyDefault,
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.WithError(err).Warn("unable to close stores")
		}
	}()

	// a canceled context is how signals stop the server; only real
	// failures get reported
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("server stopped")
	}
}
