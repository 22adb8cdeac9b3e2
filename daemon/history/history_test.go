package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelburn/ai-stack-build/daemon/probe"
)

func snapAt(t time.Time) Snapshot {
	return Snapshot{
		Timestamp: t,
		Services:  []ServiceSample{{Key: "svc", Status: probe.Up(5)}},
	}
}

func TestStore_RetainsUpToCapacity(t *testing.T) {
	store := NewStore(3)
	base := time.Now()
	for i := 0; i < 3; i++ {
		store.Append(snapAt(base.Add(time.Duration(i) * time.Second)))
	}

	snaps := store.Snapshots()
	require.Len(t, snaps, 3)
	assert.True(t, snaps[0].Timestamp.Before(snaps[2].Timestamp))
}

func TestStore_EvictsOldestBeyondCapacity(t *testing.T) {
	store := NewStore(2)
	base := time.Now()
	store.Append(snapAt(base))
	store.Append(snapAt(base.Add(time.Second)))
	store.Append(snapAt(base.Add(2 * time.Second)))

	snaps := store.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, base.Add(time.Second), snaps[0].Timestamp)
	assert.Equal(t, base.Add(2*time.Second), snaps[1].Timestamp)
}

func TestStore_LatestReflectsMostRecentAppend(t *testing.T) {
	store := NewStore(5)
	_, ok := store.Latest()
	assert.False(t, ok)

	now := time.Now()
	store.Append(snapAt(now))
	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, now, latest.Timestamp)
}
