package strategy

import (
	"testing"

	"cursorkeep/distance"
	"cursorkeep/format"
	"cursorkeep/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrospective_SplitLevenshtein(t *testing.T) {
	// The split metric sees the interior run as equally close on both sides
	// of the surviving space; the leftmost candidate wins.
	runFixtures(t, types.StrategyTypeRetrospective, &types.StrategyConfig{Metric: distance.NameSplitLevenshtein}, []fixture{
		{"digit follows cursor", format.OpCommatize, "12500", 3, "12,500", 4},
		{"stray separators", format.OpCommatize, ",1,,8,,,", 3, "18", 1},
		{"trailing run", format.OpTrimify, "  hello  ", 8, "hello", 5},
		{"inside interior run", format.OpTrimify, "  whirled    peas  now  ", 11, "whirled peas now", 7},
		{"next to removed separator", format.OpCommatize, "1,00000", 4, "100,000", 3},
		{"whitespace only", format.OpTrimify, "   ", 1, "", 0},
	})
}

func TestRetrospective_BalanceFrequencies(t *testing.T) {
	runFixtures(t, types.StrategyTypeRetrospective, nil, []fixture{
		{"digit follows cursor", format.OpCommatize, "12500", 3, "12,500", 4},
		{"stray separators", format.OpCommatize, ",1,,8,,,", 3, "18", 1},
		{"trailing run", format.OpTrimify, "  hello  ", 8, "hello", 5},
		{"inside interior run", format.OpTrimify, "  whirled    peas  now  ", 11, "whirled peas now", 8},
		{"separator keeps its side", format.OpCommatize, "1,00000", 4, "100,000", 4},
		{"whitespace only", format.OpTrimify, "   ", 1, "", 0},
	})
}

func TestClosest_LeftmostTie(t *testing.T) {
	flat := func(string, int, string, int) float64 { return 0 }
	assert.Equal(t, 0, Closest("abc", 2, "abc", flat), "all candidates tie")

	// Cost falls to a plateau at 2 and stays there
	plateau := func(_ string, _ int, _ string, pos int) float64 { return float64(max(2-pos, 0)) }
	assert.Equal(t, 2, Closest("abcde", 4, "abcde", plateau), "first position of the plateau")
}

func TestNewRetrospective_NilMetric(t *testing.T) {
	r, err := NewRetrospective(format.OpCommatize, nil)
	require.NoError(t, err)

	_, got, err := r.Apply("1,00000", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got, "defaults to balance frequencies")
}
