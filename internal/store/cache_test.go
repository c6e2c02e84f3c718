package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/source"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "salesboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRecordsRoundTrip(t *testing.T) {
	c := openTestCache(t)

	res := source.Result{
		Records: []model.SaleRecord{
			{Dias: 10, ValorVenda: 1500.5, LucroLiquido: 200, Vendedor: "Bruno", AnoMod: "2020"},
			{Dias: -1, ValorVenda: 900, Vendedor: "Ana"},
			{Dias: 4, ValorVenda: 100, Vendedor: "Bruno", AnoMod: "2018/2019"},
		},
		Rows:     4,
		Skipped:  1,
		Warnings: 2,
	}
	fp := source.Fingerprint{MtimeNs: 123, SizeBytes: 456}
	require.NoError(t, c.SaveRecords("/data/v.csv", fp, res))

	tracked, ok, err := c.GetFingerprint("/data/v.csv")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fp, tracked.Fingerprint)
	assert.False(t, tracked.FetchedAt.IsZero())

	got, err := c.LoadRecords("/data/v.csv")
	require.NoError(t, err)
	assert.Equal(t, res.Records, got.Records)
	assert.Equal(t, []string{"Bruno", "Ana"}, got.Sellers)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, 2, got.Warnings)

	n, err := c.RecordCount("/data/v.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSaveRecords_Replaces(t *testing.T) {
	c := openTestCache(t)

	first := source.Result{Records: []model.SaleRecord{{Vendedor: "A"}, {Vendedor: "B"}}}
	require.NoError(t, c.SaveRecords("k", source.Fingerprint{MtimeNs: 1}, first))
	second := source.Result{Records: []model.SaleRecord{{Vendedor: "C"}}}
	require.NoError(t, c.SaveRecords("k", source.Fingerprint{MtimeNs: 2}, second))

	got, err := c.LoadRecords("k")
	require.NoError(t, err)
	assert.Equal(t, second.Records, got.Records)

	tracked, _, err := c.GetFingerprint("k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), tracked.MtimeNs)
}

func TestGetFingerprint_Unknown(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.GetFingerprint("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteSource(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.SaveRecords("k", source.Fingerprint{}, source.Result{Records: []model.SaleRecord{{Vendedor: "A"}}}))
	require.NoError(t, c.DeleteSource("k"))

	n, err := c.RecordCount("k")
	require.NoError(t, err)
	assert.Zero(t, n)
	_, ok, err := c.GetFingerprint("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGoals(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.SaveGoal("Ana", 5))
	require.NoError(t, c.SaveGoal("Bruno", 0))
	require.NoError(t, c.SaveGoal("Ana", 8))

	goals, err := c.LoadGoals()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Ana": 8, "Bruno": 0}, goals)

	require.NoError(t, c.DeleteGoal("Bruno"))
	require.NoError(t, c.DeleteGoal("nobody"))
	goals, err = c.LoadGoals()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Ana": 8}, goals)

	require.NoError(t, c.ReplaceGoals(map[string]float64{"Carla": 3}))
	goals, err = c.LoadGoals()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Carla": 3}, goals)
}
