package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"cursorkeep/types"
	"cursorkeep/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFormatCmd(t *testing.T, config Config, args ...string) (string, error) {
	t.Helper()
	saved := cfg
	cfg = config
	t.Cleanup(func() { cfg = saved })

	cmd := newFormatCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFormatCmd_PrintsCaret(t *testing.T) {
	config := defaultConfig()
	config.Strategy = "arithmetic"

	out, err := runFormatCmd(t, config, "12500", "3")
	require.NoError(t, err)
	assert.Equal(t, utils.RenderCaret("12,500", 4)+"\n", out)
}

func TestFormatCmd_CursorDefaultsToEnd(t *testing.T) {
	config := defaultConfig()
	config.Operation = "trimify"

	out, err := runFormatCmd(t, config, "--json", "  hello  ")
	require.NoError(t, err)

	var res types.FormatResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, types.FormatResult{Strategy: types.StrategyTypeBuffer, Text: "hello", Cursor: 5}, res)
}

func TestFormatCmd_Compare(t *testing.T) {
	config := defaultConfig()
	config.Operation = "credit_card"

	out, err := runFormatCmd(t, config, "--compare", "--json", "41111111")
	require.NoError(t, err)

	var results []types.FormatResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, len(types.StrategyTypes()))

	for _, res := range results {
		if res.Strategy == types.StrategyTypeMarker {
			assert.NotEmpty(t, res.Error, "marker cannot place a cursor in card numbers")
			continue
		}
		assert.Empty(t, res.Error, "%s", res.Strategy)
		assert.Equal(t, "4111 1111", res.Text, "%s", res.Strategy)
	}
}

func TestFormatCmd_Errors(t *testing.T) {
	config := defaultConfig()

	_, err := runFormatCmd(t, config, "12500", "three")
	assert.Error(t, err, "cursor must be a number")

	_, err = runFormatCmd(t, config, "12500", "9")
	assert.Error(t, err, "cursor past the end")

	config.Strategy = "guess"
	_, err = runFormatCmd(t, config, "12500")
	assert.ErrorIs(t, err, types.ErrUnknownStrategy)
}

func TestFormatCmd_HelpDescribesCaretLine(t *testing.T) {
	long := newFormatCmd().Long
	assert.Contains(t, long, utils.CaretGlyph, "help shows the glyph RenderCaret prints")
	assert.NotContains(t, long, "'|'")
}
