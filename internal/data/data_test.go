package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ix-simulation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestResultCache(t *testing.T) {
	c := NewResultCache(time.Minute)
	defer c.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(&model.SimulationOutput{ID: "a", Status: model.StatusSuccess})
	c.Set(&model.SimulationOutput{}) // no id, ignored
	c.Set(nil)
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.StatusSuccess, got.Status)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok, "expired")

	c.sweep()
	assert.Equal(t, 0, c.Len())

	c.Set(&model.SimulationOutput{ID: "b"})
	c.Clear()
	assert.Equal(t, 0, c.Len())

	c.Close()
}

func TestNilResultCache(t *testing.T) {
	var c *ResultCache
	c.Set(&model.SimulationOutput{ID: "a"})
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
	c.Clear()
	c.Close()
}

func TestLoadWaterAnalysis(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "feed.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"flow_m3_hr": 12, "ions_mg_l": {"Ca": 80.06, "Mg": 24.29}}`), 0o644))
	w, err := LoadWaterAnalysis(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "feed", w.Name)
	assert.Equal(t, 12.0, w.FlowM3H)
	assert.Equal(t, 24.29, w.Ion(model.IonMagnesium))

	wrapped := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(wrapped, []byte("water:\n  name: plant inlet\n  ions_mg_l:\n    Ca: 40\n"), 0o644))
	w, err = LoadWaterAnalysis(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "plant inlet", w.Name)
	assert.Equal(t, 40.0, w.Ion(model.IonCalcium))

	bare := filepath.Join(dir, "bare.yml")
	require.NoError(t, os.WriteFile(bare, []byte("ph: 7.2\nions_mg_l:\n  Mg: 10\n"), 0o644))
	w, err = LoadWaterAnalysis(bare)
	require.NoError(t, err)
	assert.Equal(t, 7.2, w.PH)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"ph": 7}`), 0o644))
	_, err = LoadWaterAnalysis(empty)
	assert.ErrorContains(t, err, "no ions_mg_l")

	_, err = LoadWaterAnalysis(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestCatalogRoundTripAndFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "waters.json")
	require.NoError(t, SaveCatalog(DefaultCatalog(), path))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Waters, 3)
	assert.Equal(t, "brackish-well", c.Waters[0].Name, "sorted by name")

	w, ok := c.Find("reference-hard")
	require.True(t, ok)
	w.Ions[model.IonCalcium] = 0
	again, _ := c.Find("reference-hard")
	assert.Equal(t, 80.06, again.Ion(model.IonCalcium), "Find returns a copy")

	_, ok = c.Find("nope")
	assert.False(t, ok)
}

func TestLoadCatalogRejectsUnnamed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waters.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"waters":[{"ions_mg_l":{"Ca":1}}]}`), 0o644))
	_, err := LoadCatalog(path)
	assert.ErrorContains(t, err, "has no name")
}
