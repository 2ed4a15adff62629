package engine

import (
	"time"

	"cursorkeep/logger"
	"cursorkeep/marker"
	"cursorkeep/strategy"
	"cursorkeep/text"
	"cursorkeep/utils"

	"github.com/pkg/errors"
)

// formatCurrentLine syncs the line under the cursor, formats it and writes
// back whatever changed. Caller holds e.mu.
func (e *Engine) formatCurrentLine() {
	defer logger.Trace("engine.formatCurrentLine")()

	if err := e.buffer.Sync(); err != nil {
		logger.Error("error syncing buffer: %v", err)
		return
	}

	line, cursor := e.buffer.Line(), e.buffer.Cursor()
	op := e.config.Operation.String()

	start := time.Now()
	newLine, newCursor, err := e.formatter.Apply(line, cursor)
	e.recorder.RecordFormat(string(e.config.Strategy), op, time.Since(start), errorType(err), err == nil)
	if err != nil {
		e.reportFormatError(line, cursor, err)
		return
	}

	if newLine == line && newCursor == cursor {
		e.recorder.RecordUnchanged(op)
		return
	}

	change, err := e.buffer.Apply(newLine, newCursor)
	if err != nil {
		logger.Error("error applying formatted line: %v", err)
		return
	}
	if change.Type != text.ChangeNone {
		e.recorder.RecordEdit(op, change.Cost)
	}
	logger.Debug("row %d %s:\n%s\n%s", e.buffer.Row(), change.Type,
		utils.RenderCaret(line, cursor), utils.RenderCaret(newLine, newCursor))
}

func (e *Engine) reportFormatError(line string, cursor int, err error) {
	logger.Warn("error formatting %q at %d: %v", line, cursor, err)
	if errors.Is(err, marker.ErrNoAvailableMarker) {
		if nerr := e.buffer.Notify("line uses every printable character, cannot place marker", logger.LogLevelWarn); nerr != nil {
			logger.Error("error notifying editor: %v", nerr)
		}
	}
}

// errorType labels a formatting error for metrics.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, marker.ErrNoAvailableMarker):
		return "no_marker"
	case errors.Is(err, strategy.ErrInvalidCursor):
		return "invalid_cursor"
	default:
		return "other"
	}
}
