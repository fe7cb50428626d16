package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-padel-watcher/internal/model"
)

func matchAt(start time.Time, court string) model.Match {
	return model.NewMatch(start, court, model.LevelBand{Min: 1, Max: 3},
		[2]model.Player{{Name: "Jean Dupont"}, model.EmptyPlayer()},
		[2]model.Player{{Name: "Marie Curie"}, model.EmptyPlayer()},
	)
}

func TestMissingFileStartsEmpty(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "seen.json"))
	assert.Zero(t, c.Len())
}

func TestHasSeenAfterAdd(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "seen.json"))
	m := matchAt(time.Date(2026, 9, 4, 20, 0, 0, 0, time.UTC), "COURT 1")

	assert.False(t, c.HasSeen(&m))
	c.Add(&m)
	assert.True(t, c.HasSeen(&m))

	//an identical match built on a later pass has the same stable hash
	same := matchAt(time.Date(2026, 9, 4, 20, 0, 0, 0, time.UTC), "COURT 1")
	assert.True(t, c.HasSeen(&same))

	other := matchAt(time.Date(2026, 9, 4, 20, 0, 0, 0, time.UTC), "COURT 2")
	assert.False(t, c.HasSeen(&other))
}

func TestDoubleAddPanics(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "seen.json"))
	m := matchAt(time.Date(2026, 9, 4, 20, 0, 0, 0, time.UTC), "COURT 1")

	c.Add(&m)
	assert.Panics(t, func() { c.Add(&m) })
}

func TestPruneExpired(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "seen.json"))
	now := time.Date(2026, 9, 3, 12, 0, 0, 0, time.UTC)

	yesterday := matchAt(now.AddDate(0, 0, -1), "COURT 1")
	tomorrow := matchAt(now.AddDate(0, 0, 1), "COURT 2")
	c.Add(&yesterday)
	c.Add(&tomorrow)

	c.pruneBefore(now)
	assert.False(t, c.HasSeen(&yesterday))
	assert.True(t, c.HasSeen(&tomorrow))
	assert.Equal(t, 1, c.Len())

	//pruning twice yields the same result as once
	c.pruneBefore(now)
	assert.True(t, c.HasSeen(&tomorrow))
	assert.Equal(t, 1, c.Len())
}

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "seen.json")

	c := New(path)
	m := matchAt(time.Date(2026, 9, 4, 20, 0, 0, 0, time.UTC), "COURT 1")
	c.Add(&m)
	require.NoError(t, c.Persist())

	reloaded := New(path)
	assert.Equal(t, 1, reloaded.Len())
	assert.True(t, reloaded.HasSeen(&m))
}

func TestPersistOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	c := New(path)
	old := matchAt(time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC), "COURT 1")
	keep := matchAt(time.Date(2026, 9, 9, 20, 0, 0, 0, time.UTC), "COURT 2")
	c.Add(&old)
	c.Add(&keep)
	require.NoError(t, c.Persist())

	c.pruneBefore(time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, c.Persist())

	reloaded := New(path)
	assert.False(t, reloaded.HasSeen(&old))
	assert.True(t, reloaded.HasSeen(&keep))
}
