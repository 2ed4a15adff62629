package engine

import (
	"sync"

	"cursorkeep/buffer"
	"cursorkeep/logger"
	"cursorkeep/text"
	"cursorkeep/utils"

	"github.com/neovim/go-client/nvim"
	"github.com/pkg/errors"
)

var (
	_ Buffer = (*buffer.NvimBuffer)(nil)
	_ Buffer = (*mockBuffer)(nil)
)

// mockBuffer implements the Buffer interface for testing
type mockBuffer struct {
	mu      sync.Mutex
	line    string
	cursor  int
	row     int
	handler func(event string)

	// Track method calls
	syncCalls  int
	applyCalls int
	notified   []string
	syncErr    error
	applyErr   error
	clientSet  bool
}

func newMockBuffer(line string, cursor int) *mockBuffer {
	return &mockBuffer{line: line, cursor: cursor, row: 1}
}

func (b *mockBuffer) SetClient(n *nvim.Nvim) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clientSet = true
}

func (b *mockBuffer) Sync() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncCalls++
	return b.syncErr
}

func (b *mockBuffer) Line() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.line
}

func (b *mockBuffer) Row() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.row
}

func (b *mockBuffer) Cursor() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

func (b *mockBuffer) Apply(line string, cursor int) (text.Change, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applyCalls++
	if b.applyErr != nil {
		return text.Change{}, b.applyErr
	}
	change := text.ComputeChange(b.line, line)
	b.line, b.cursor = line, cursor
	return change, nil
}

func (b *mockBuffer) Notify(msg string, level logger.LogLevel) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notified = append(b.notified, msg)
	return nil
}

func (b *mockBuffer) RegisterEventHandler(handler func(event string)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
	return nil
}

// typeText simulates a keystroke: the line and cursor change as the editor
// would report them.
func (b *mockBuffer) typeText(line string, cursor int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.line, b.cursor = line, cursor
}

// send delivers an event the way the editor plugin would
func (b *mockBuffer) send(event string) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	if handler != nil {
		handler(event)
	}
}

func (b *mockBuffer) snapshot() (string, int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.line, b.cursor, b.applyCalls
}

func (b *mockBuffer) caret() string {
	line, cursor, _ := b.snapshot()
	return utils.RenderCaret(line, cursor)
}

var errMock = errors.New("mock failure")
