package strategy

import (
	"testing"

	"cursorkeep/format"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_Apply(t *testing.T) {
	d, err := NewDiff(format.OpCommatize)
	require.NoError(t, err)

	text, cursor, err := d.Apply("12500", 3)
	require.NoError(t, err)
	assert.Equal(t, "12,500", text, "text")
	assert.Equal(t, 4, cursor, "cursor follows the 5")

	d, err = NewDiff(format.OpTrimify)
	require.NoError(t, err)

	text, cursor, err = d.Apply("  hello  ", 9)
	require.NoError(t, err)
	assert.Equal(t, "hello", text, "text")
	assert.Equal(t, 5, cursor, "end maps to end")
}
