package engine

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"cursorkeep/format"
	"cursorkeep/logger"
	"cursorkeep/metrics"
	"cursorkeep/strategy"
	"cursorkeep/text"
	"cursorkeep/types"

	"github.com/neovim/go-client/nvim"
	"github.com/pkg/errors"
)

// Buffer defines the interface for buffer operations.
// Implemented by buffer.NvimBuffer for Neovim integration.
type Buffer interface {
	SetClient(n *nvim.Nvim)
	Sync() error
	Line() string
	Row() int
	Cursor() int // rune offset into Line
	Apply(line string, cursor int) (text.Change, error)
	Notify(msg string, level logger.LogLevel) error
	RegisterEventHandler(handler func(event string)) error
}

type EngineConfig struct {
	Strategy           types.StrategyType
	Operation          format.Operation
	TextChangeDebounce time.Duration // 0 formats on every change
}

// Engine reformats the line under the cursor whenever the editor reports
// a change, using one configured strategy.
type Engine struct {
	formatter       strategy.Formatter
	buffer          Buffer
	recorder        *metrics.Recorder
	state           state
	textChangeTimer *time.Timer
	mu              sync.RWMutex
	eventChan       chan Event

	// Main context and cancel for the engine lifecycle
	mainCtx    context.Context
	mainCancel context.CancelFunc
	stopped    bool
	stopOnce   sync.Once

	config EngineConfig
}

// NewEngine builds an engine around buf. A nil recorder disables metrics.
func NewEngine(formatter strategy.Formatter, buf Buffer, recorder *metrics.Recorder, config EngineConfig) (*Engine, error) {
	if formatter == nil {
		return nil, errors.New("engine needs a formatter")
	}
	if buf == nil {
		return nil, errors.New("engine needs a buffer")
	}

	return &Engine{
		formatter: formatter,
		buffer:    buf,
		recorder:  recorder,
		state:     stateIdle,
		eventChan: make(chan Event, 100),
		config:    config,
	}, nil
}

func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.mainCtx, e.mainCancel = context.WithCancel(ctx)
	e.mu.Unlock()

	go e.eventLoop(e.mainCtx)
	logger.Info("engine started: %s %s", e.config.Strategy, e.config.Operation)
}

// Stop shuts the engine down. Events arriving afterwards are dropped.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		logger.Info("stopping engine...")
		e.stopped = true
		if e.mainCancel != nil {
			e.mainCancel()
		}
		e.stopTextChangeTimer()
		e.state = stateIdle
		logger.Info("engine stopped")
	})
}

// SetNvim points the buffer at a new connection and subscribes to its
// events.
func (e *Engine) SetNvim(n *nvim.Nvim) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}

	e.buffer.SetClient(n)
	if err := e.buffer.RegisterEventHandler(e.onEditorEvent); err != nil {
		logger.Error("error registering event handler: %v", err)
	}
}

// Reconfigure swaps the formatter and settings. A pending debounce keeps
// running and formats with the new formatter when it fires.
func (e *Engine) Reconfigure(formatter strategy.Formatter, config EngineConfig) error {
	if formatter == nil {
		return errors.New("engine needs a formatter")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.formatter = formatter
	e.config = config
	logger.Info("engine reconfigured: %s %s", config.Strategy, config.Operation)
	return nil
}

func (e *Engine) onEditorEvent(name string) {
	eventType := EventTypeFromString(name)
	if eventType == "" {
		logger.Warn("unknown editor event %q", name)
		return
	}
	e.enqueue(eventType)
}

// enqueue hands an event to the loop. It must not be called while e.mu is
// held.
func (e *Engine) enqueue(eventType EventType) {
	e.mu.RLock()
	ctx, stopped := e.mainCtx, e.stopped
	e.mu.RUnlock()

	if stopped || ctx == nil {
		return
	}
	select {
	case e.eventChan <- Event{Type: eventType}:
	case <-ctx.Done():
	}
}

// eventLoopRestarts tracks the number of event loop restarts for panic recovery
var eventLoopRestarts atomic.Int32

const maxEventLoopRestarts = 3

func (e *Engine) eventLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			restarts := eventLoopRestarts.Add(1)
			logger.Error("event loop panic [%d/%d]: %v\n%s",
				restarts, maxEventLoopRestarts, r, debug.Stack())

			if int(restarts) < maxEventLoopRestarts {
				e.eventLoop(ctx)
			} else {
				logger.Error("max event loop restarts reached, stopping engine")
				go e.Stop() // async to avoid deadlock
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-e.eventChan:
			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("event handler panic recovered for event %v: %v", event.Type, r)
					}
				}()
				e.handleEvent(event)
			}()
		}
	}
}

func (e *Engine) handleEvent(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}

	logger.Debug("handle event: %v (state=%s)", event.Type, e.state)
	if !e.dispatch(event) {
		logger.Debug("no transition for %v in state %s", event.Type, e.state)
	}
}

func (e *Engine) startTextChangeTimer() {
	e.stopTextChangeTimer()
	if e.config.TextChangeDebounce <= 0 {
		e.formatCurrentLine()
		return
	}
	e.textChangeTimer = time.AfterFunc(e.config.TextChangeDebounce, func() {
		e.enqueue(EventTextChangeTimeout)
	})
}

func (e *Engine) stopTextChangeTimer() {
	if e.textChangeTimer != nil {
		e.textChangeTimer.Stop()
		e.textChangeTimer = nil
	}
}
