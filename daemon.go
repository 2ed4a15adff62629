package main

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"cursorkeep/buffer"
	"cursorkeep/engine"
	"cursorkeep/logger"
	"cursorkeep/metrics"
	"cursorkeep/strategy"
	"cursorkeep/watcher"

	"github.com/neovim/go-client/nvim"
	"github.com/pkg/errors"
)

type Daemon struct {
	config     Config
	engine     *engine.Engine
	recorder   *metrics.Recorder
	listener   net.Listener
	metricsSrv *http.Server
	configPath string
	reload     func() (Config, error)
	socketPath string
	pidPath    string
	clients    atomic.Int64
	ctx        context.Context
	cancel     context.CancelFunc
}

// newFormatter builds the formatter and engine settings config asks for.
func newFormatter(config Config) (strategy.Formatter, engine.EngineConfig, error) {
	kind, op, settings, err := config.formatterSettings()
	if err != nil {
		return nil, engine.EngineConfig{}, err
	}

	formatter, err := strategy.New(kind, op, settings)
	if err != nil {
		return nil, engine.EngineConfig{}, errors.Wrap(err, "create formatter")
	}

	return formatter, engine.EngineConfig{
		Strategy:           kind,
		Operation:          op,
		TextChangeDebounce: config.debounce(),
	}, nil
}

func NewDaemon(config Config) (*Daemon, error) {
	formatter, engineConfig, err := newFormatter(config)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder(metrics.DefaultConfig())

	eng, err := engine.NewEngine(formatter, buffer.New(), recorder, engineConfig)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Daemon{
		config:     config,
		engine:     eng,
		recorder:   recorder,
		socketPath: getSocketPath(),
		pidPath:    getPidPath(),
		ctx:        ctx,
		cancel:     cancel,
	}
	if config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", recorder.Handler())
		d.metricsSrv = &http.Server{
			Addr:              config.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return d, nil
}

// WatchConfig makes the daemon call reload and apply the result whenever the
// file at path changes. Must be called before Start.
func (d *Daemon) WatchConfig(path string, reload func() (Config, error)) {
	d.configPath = path
	d.reload = reload
}

// Start serves until Stop or a shutdown signal. The PID file appears only
// once the socket is listening, since clients take it as the signal to dial.
func (d *Daemon) Start() error {
	if err := d.setupSocket(); err != nil {
		return err
	}
	defer d.cleanup()

	d.writePidFile()
	defer d.removePidFile()

	log.Printf("daemon listening on socket: %s", d.socketPath)

	d.engine.Start(d.ctx)
	d.setupShutdownHandling()
	d.serveMetrics()
	d.watchConfig()

	go d.acceptConnections()
	go d.monitorIdleShutdown()

	<-d.ctx.Done()
	log.Printf("daemon shutting down...")
	return nil
}

func (d *Daemon) setupSocket() error {
	os.Remove(d.socketPath)

	listener, err := net.Listen("unix", d.socketPath)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", d.socketPath)
	}
	d.listener = listener
	return nil
}

// serveMetrics exposes the Prometheus registry when metrics_addr is set.
// A failing metrics listener is logged and does not stop formatting.
func (d *Daemon) serveMetrics() {
	if d.metricsSrv == nil {
		return
	}
	go func() {
		log.Printf("serving metrics on %s/metrics", d.metricsSrv.Addr)
		if err := d.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
}

func (d *Daemon) watchConfig() {
	if d.configPath == "" || d.reload == nil {
		return
	}

	w, err := watcher.New(watcher.DefaultConfig(d.configPath))
	if err != nil {
		log.Printf("config watch disabled: %v", err)
		return
	}
	changes, err := w.Start()
	if err != nil {
		log.Printf("config watch disabled: %v", err)
		w.Stop()
		return
	}
	log.Printf("watching config file: %s", d.configPath)

	go func() {
		defer w.Stop()
		for {
			select {
			case <-d.ctx.Done():
				return
			case <-changes:
				config, err := d.reload()
				if err != nil {
					log.Printf("config reload failed, keeping current settings: %v", err)
					continue
				}
				if err := d.applyConfig(config); err != nil {
					log.Printf("config reload failed, keeping current settings: %v", err)
				}
			}
		}
	}()
}

// applyConfig swaps in the strategy settings and log level from config.
// The socket and metrics address only change on restart.
func (d *Daemon) applyConfig(config Config) error {
	formatter, engineConfig, err := newFormatter(config)
	if err != nil {
		return err
	}
	if err := d.engine.Reconfigure(formatter, engineConfig); err != nil {
		return err
	}
	logger.SetGlobalLevel(logger.ParseLogLevel(config.LogLevel))
	d.config.Strategy = config.Strategy
	d.config.Operation = config.Operation
	d.config.Metric = config.Metric
	d.config.PreferRight = config.PreferRight
	d.config.TextChangeDebounce = config.TextChangeDebounce
	d.config.LogLevel = config.LogLevel
	return nil
}

func (d *Daemon) setupShutdownHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("received shutdown signal")
		d.Stop()
	}()
}

func (d *Daemon) acceptConnections() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				return
			}
			log.Printf("accept: %v", err)
			continue
		}

		log.Printf("client connected (%d active)", d.clients.Add(1))
		go d.handleConnection(conn)
	}
}

func (d *Daemon) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer func() {
		log.Printf("client disconnected (%d active)", d.clients.Add(-1))
	}()

	n, err := nvim.New(conn, conn, conn, log.Printf)
	if err != nil {
		log.Printf("error creating nvim client: %v", err)
		return
	}

	// The most recent connection owns the engine's buffer
	d.engine.SetNvim(n)

	if d.ctx.Err() != nil {
		return
	}
	if err := n.Serve(); err != nil && err != io.EOF {
		log.Printf("serve: %v", err)
	}
}

// idleCheck is how often the daemon looks for connected clients and exits
// when there are none. DebugImmediateShutdown shortens it to a second.
const idleCheck = 30 * time.Second

func (d *Daemon) monitorIdleShutdown() {
	interval := idleCheck
	if d.config.DebugImmediateShutdown {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			if d.clients.Load() > 0 {
				continue
			}
			log.Printf("no clients connected for %s, shutting down daemon", interval)
			d.Stop()
			return
		}
	}
}

func (d *Daemon) Stop() {
	d.engine.Stop()
	if d.listener != nil {
		d.listener.Close()
	}
	if d.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := d.metricsSrv.Shutdown(ctx); err != nil {
			log.Printf("metrics server shutdown: %v", err)
		}
	}
	d.cancel()
}

func (d *Daemon) cleanup() {
	os.Remove(d.socketPath)
}

// writePidFile records the daemon's PID for isDaemonRunning.
func (d *Daemon) writePidFile() {
	pid := os.Getpid()
	if err := os.WriteFile(d.pidPath, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		log.Printf("pid file %s: %v", d.pidPath, err)
	}
	log.Printf("daemon pid %d", pid)
}

func (d *Daemon) removePidFile() {
	if err := os.Remove(d.pidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("pid file %s: %v", d.pidPath, err)
	}
}
