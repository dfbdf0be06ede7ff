package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/headpin-io/headpin-app/gpio"
	"github.com/headpin-io/headpin-app/journal"
	"github.com/headpin-io/headpin-app/store"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type Server struct {
	Addr string

	Device  *gpio.Device
	Store   store.Store
	Journal journal.Journal
	Logger  *logrus.Logger

	// PollInterval is how often input pins are sampled for the journal.
	// Zero or negative disables the watcher.
	PollInterval time.Duration

	// ApplyDefault restores the stored default preset during startup.
	ApplyDefault bool

	deviceManager *deviceManager
}

func (s *Server) Run(ctx context.Context) error {
	if err := s.init(); err != nil {
		return fmt.Errorf("unable to initialize: %w", err)
	}

	httpServer := &http.Server{
		Addr:              s.Addr,
		Handler:           s.routes(),
		ReadTimeout:       time.Second * 15,
		ReadHeaderTimeout: time.Second * 15,
		IdleTimeout:       time.Second * 30,
		MaxHeaderBytes:    4096,
	}

	listenErrs := make(chan error)
	go func() {
		s.Logger.WithField("addr", s.Addr).Info("serving http")
		listenErrs <- httpServer.ListenAndServe()
	}()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	watchErrs := make(chan error)
	go func() {
		s.Logger.Info("starting input watcher")
		watchErrs <- s.watchInputs(watchCtx)
	}()

	select {
	case err := <-listenErrs:
		return err
	case err := <-watchErrs:
		httpServer.Shutdown(ctx)
		return err
	case <-ctx.Done():
		return httpServer.Shutdown(ctx)
	}
}

// Close releases the preset store and the journal. The device belongs to
// the caller and stays up.
func (s *Server) Close() error {
	return multierr.Combine(s.Store.Close(), s.Journal.Close())
}

// init makes the device ready and optionally brings the header back to the
// stored default preset.
func (s *Server) init() error {
	s.deviceManager = &deviceManager{mu: new(sync.Mutex), device: s.Device}

	s.Device.Init()

	if !s.ApplyDefault {
		return nil
	}

	name, err := s.Store.DefaultPreset()
	if err != nil {
		s.Logger.Warnf("no default preset found: %s", err)
		return nil
	}
	if name == "" {
		s.Logger.Info("no default preset configured")
		return nil
	}

	preset, err := s.Store.Preset(name)
	if err != nil {
		s.Logger.Warnf("unable to load default preset: %s", err)
		return nil
	}

	if err := s.Device.Apply(preset); err != nil {
		s.Logger.Warnf("unable to apply default preset: %s", err)
	}

	return nil
}

func (s *Server) routes() http.Handler {
	mux := httprouter.New()

	mux.HandlerFunc(http.MethodGet, "/pins", s.pins)
	mux.HandlerFunc(http.MethodGet, "/pins/:pin", s.getPin)
	mux.HandlerFunc(http.MethodGet, "/pins/:pin/level", s.getPinLevel)
	mux.HandlerFunc(http.MethodPut, "/pins/:pin/direction", s.putPinDirection)
	mux.HandlerFunc(http.MethodPut, "/pins/:pin/level", s.putPinLevel)

	mux.HandlerFunc(http.MethodGet, "/preset", s.getDefaultPreset)
	mux.HandlerFunc(http.MethodPut, "/preset", s.putDefaultPreset)
	mux.HandlerFunc(http.MethodGet, "/presets", s.presets)
	mux.HandlerFunc(http.MethodGet, "/presets/:name", s.getPreset)
	mux.HandlerFunc(http.MethodPut, "/presets/:name", s.putPreset)
	mux.HandlerFunc(http.MethodDelete, "/presets/:name", s.deletePreset)

	mux.HandlerFunc(http.MethodPost, "/rpc/applyPreset", s.applyPreset)
	mux.HandlerFunc(http.MethodPost, "/rpc/snapshotPreset", s.snapshotPreset)
	mux.HandlerFunc(http.MethodPost, "/rpc/reinitialize", s.reinitialize)

	mux.HandlerFunc(http.MethodGet, "/events", s.events)

	return s.withRequestLog(mux)
}

// watchInputs samples input pins on a fixed interval and journals level
// changes. Polling works on every kernel the sysfs class exists on;
// nothing here depends on interrupt support.
func (s *Server) watchInputs(ctx context.Context) error {
	if s.PollInterval <= 0 {
		<-ctx.Done()
		return nil
	}

	last := map[gpio.PinID]gpio.Level{}

	ticker := time.NewTicker(s.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sampleInputs(last)
		}
	}
}

// sampleInputs reads every input pin once, comparing against the previous
// sample. The first observation of a pin is its baseline and is never
// reported as a change.
func (s *Server) sampleInputs(last map[gpio.PinID]gpio.Level) {
	pins, err := s.Device.GPIOPins()
	if err != nil {
		s.Logger.Debugf("input watch skipped: %s", err)
		return
	}

	for _, p := range pins {
		if p.Direction != gpio.In {
			delete(last, p.ID)
			continue
		}

		level, err := s.Device.Level(p.ID)
		if err != nil {
			s.Logger.WithError(err).WithField("pin", p.Name).Warn("unable to read input pin")
			continue
		}

		prev, seen := last[p.ID]
		last[p.ID] = level
		if !seen || prev == level {
			continue
		}

		s.Logger.WithField("pin", p.Name).WithField("level", level.String()).Debug("input changed")

		event := journal.Event{Pin: p.Name, Op: journal.OpInput, Value: level.String()}
		if err := s.Journal.Record(event); err != nil {
			s.Logger.WithError(err).Warn("unable to journal input change")
		}
	}
}
