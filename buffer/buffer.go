package buffer

import (
	"cursorkeep/logger"
	"cursorkeep/text"
	"cursorkeep/utils"

	"github.com/neovim/go-client/nvim"
	"github.com/pkg/errors"
)

// EventName is the RPC notification the editor plugin sends events on.
const EventName = "cursorkeep_event"

var errNoClient = errors.New("nvim client not set")

// NvimBuffer mirrors the line under the cursor in the current Neovim window.
// Columns coming from Neovim are byte offsets; Cursor converts them to the
// rune offsets the formatters use.
type NvimBuffer struct {
	client *nvim.Nvim // stored internally, set via SetClient

	id   nvim.Buffer
	line string
	row  int // 1-indexed
	col  int // 0-indexed byte column
}

func New() *NvimBuffer {
	return &NvimBuffer{
		row: 1,
		id:  nvim.Buffer(0),
	}
}

// SetClient stores the nvim client for all buffer operations
func (b *NvimBuffer) SetClient(n *nvim.Nvim) {
	b.client = n
}

// Accessor methods implementing engine.Buffer interface

func (b *NvimBuffer) Line() string { return b.line }

func (b *NvimBuffer) Row() int { return b.row }

func (b *NvimBuffer) Col() int { return b.col }

// Cursor returns the cursor as a rune offset into Line.
func (b *NvimBuffer) Cursor() int {
	return utils.ByteToRuneOffset(b.line, b.col)
}

// Sync reads the current buffer, line and cursor from the editor in one
// round-trip.
func (b *NvimBuffer) Sync() error {
	defer logger.Trace("buffer.Sync")()
	if b.client == nil {
		return errNoClient
	}

	batch := b.client.NewBatch()

	var currentBuf nvim.Buffer
	var line []byte
	var cursor [2]int

	batch.CurrentBuffer(&currentBuf)
	batch.CurrentLine(&line)
	batch.WindowCursor(nvim.Window(0), &cursor)

	if err := batch.Execute(); err != nil {
		return errors.Wrap(err, "sync batch")
	}

	b.setState(currentBuf, string(line), cursor[0], cursor[1])
	return nil
}

func (b *NvimBuffer) setState(id nvim.Buffer, line string, row, col int) {
	b.id = id
	b.line = line
	b.row = row
	b.col = min(max(col, 0), len(line))
}

// Plan works out the edit that turns the synced line into line. The cursor
// is a rune offset into line.
func (b *NvimBuffer) Plan(line string, cursor int) Edit {
	return Edit{
		Row:    b.row,
		Change: text.ComputeChange(b.line, line),
		Col:    utils.RuneToByteOffset(line, cursor),
	}
}

// Edit is a planned rewrite of one line plus the cursor column to set
// afterwards. Change and Col are in bytes.
type Edit struct {
	Row    int
	Change text.Change
	Col    int
}

// Noop reports whether the edit leaves both line and cursor as they are.
func (e Edit) Noop(currentCol int) bool {
	return e.Change.Type == text.ChangeNone && e.Col == currentCol
}

// Apply writes line back to the editor, touching only the changed region,
// and moves the cursor to the given rune offset. The returned change is
// ChangeNone when only the cursor moved.
func (b *NvimBuffer) Apply(line string, cursor int) (text.Change, error) {
	if b.client == nil {
		return text.Change{}, errNoClient
	}

	edit := b.Plan(line, cursor)
	if edit.Noop(b.col) {
		return edit.Change, nil
	}

	batch := b.client.NewBatch()
	if c := edit.Change; c.Type != text.ChangeNone {
		batch.SetBufferText(b.id, edit.Row-1, c.ColStart, edit.Row-1, c.OldColEnd, [][]byte{[]byte(c.Content)})
	}
	batch.SetWindowCursor(0, [2]int{edit.Row, edit.Col})
	if err := batch.Execute(); err != nil {
		return text.Change{}, errors.Wrapf(err, "apply %s at row %d", edit.Change.Type, edit.Row)
	}

	b.commit(line, edit)
	return edit.Change, nil
}

func (b *NvimBuffer) commit(line string, edit Edit) {
	b.line = line
	b.col = edit.Col
}

// Notify shows a message in the editor. Log levels line up with
// vim.log.levels.
func (b *NvimBuffer) Notify(msg string, level logger.LogLevel) error {
	if b.client == nil {
		return errNoClient
	}
	batch := b.client.NewBatch()
	batch.ExecLua("vim.notify(...)", nil, "cursorkeep: "+msg, int(level))
	return batch.Execute()
}

// RegisterEventHandler registers a handler for nvim RPC events
func (b *NvimBuffer) RegisterEventHandler(handler func(event string)) error {
	if b.client == nil {
		return errNoClient
	}
	return b.client.RegisterHandler(EventName, func(_ *nvim.Nvim, event string) {
		handler(event)
	})
}
