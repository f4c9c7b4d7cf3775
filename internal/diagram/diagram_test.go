package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorcf/internal/capacity"
	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/gb"
)

func testEnvelope(t *testing.T) capacity.Envelope {
	t.Helper()
	cat := catalog.Default()
	idx := cat.IndexOf(400, 500)
	require.GreaterOrEqual(t, idx, 0)
	return capacity.ComputeEnvelope(cat.ByIndex(idx), gb.C30HRB400(), capacity.DefaultColumnAsMM2)
}

func TestSummaryBoxFrames(t *testing.T) {
	lines := []string{
		"best cost   ¥ 18432.50",
		"roof beam   300×550",
	}
	out := SummaryBox("Optimization Result", lines)

	assert.Contains(t, out, "Optimization Result")
	for _, line := range lines {
		assert.Contains(t, out, line)
	}
	assert.Contains(t, out, "╔")
	assert.Contains(t, out, "╠")
	assert.Contains(t, out, "╚")

	// Every border row closes at the same rune column, ¥ and × included.
	rows := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := len([]rune(rows[0]))
	for _, row := range rows[1:] {
		assert.Equal(t, want, len([]rune(row)), "row %q", row)
	}
}

func TestConvergenceChart(t *testing.T) {
	history := []float64{25000, 23000, 21000, 20500, 20500, 20100}

	out := ConvergenceChart(history, 0, 0)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "6 generations")

	assert.Empty(t, ConvergenceChart(nil, 40, 10))
}

func TestUtilizationBar(t *testing.T) {
	half := UtilizationBar(0.5, 10)
	assert.Equal(t, 5, strings.Count(half, "█"))
	assert.Equal(t, 5, strings.Count(half, "░"))
	assert.Contains(t, half, "0.50")

	over := UtilizationBar(1.3, 10)
	assert.Equal(t, 10, strings.Count(over, "█"))
	assert.Contains(t, over, "1.30")

	neg := UtilizationBar(-0.2, 10)
	assert.Equal(t, 10, strings.Count(neg, "░"))
}

func TestSaveEnvelopePlot(t *testing.T) {
	env := testEnvelope(t)
	dir := t.TempDir()

	demands := []DemandPoint{{P: 350, M: 60}, {P: 120, M: 85}}
	for _, name := range []string{"envelope.png", "envelope.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SaveEnvelopePlot(env, demands, path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	// No extension falls back to PNG.
	bare := filepath.Join(dir, "bare")
	require.NoError(t, SaveEnvelopePlot(env, nil, bare))
	_, err := os.Stat(bare + ".png")
	require.NoError(t, err)

	err = SaveEnvelopePlot(capacity.Envelope{}, nil, filepath.Join(dir, "x.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no control points")
}

func TestSaveConvergencePlot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "convergence.png")

	require.NoError(t, SaveConvergencePlot([]float64{25000, 22000, 21000, 20990}, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	require.Error(t, SaveConvergencePlot(nil, filepath.Join(dir, "empty.png")))
}
