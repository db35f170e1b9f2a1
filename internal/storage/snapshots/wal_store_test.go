package snapshots

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binfolio/internal/domain"
)

func TestWALStoreSaveAndRead(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	first := domain.PortfolioSnapshot{
		Timestamp:      time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
		TotalValueUSDT: decimal.NewFromInt(100),
	}
	second := domain.PortfolioSnapshot{
		Timestamp:      time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC),
		TotalValueUSDT: decimal.NewFromInt(150),
	}

	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))

	records, err := store.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Snapshot.TotalValueUSDT.Equal(decimal.NewFromInt(100)))
	assert.True(t, records[1].Snapshot.TotalValueUSDT.Equal(decimal.NewFromInt(150)))
	assert.Less(t, records[0].Index, records[1].Index)
}

func TestWALStoreSnapshotsAfterResumes(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(domain.PortfolioSnapshot{
		Timestamp:      time.Now().UTC(),
		TotalValueUSDT: decimal.NewFromInt(1),
	}))
	require.NoError(t, store.Save(domain.PortfolioSnapshot{
		Timestamp:      time.Now().UTC(),
		TotalValueUSDT: decimal.NewFromInt(2),
	}))

	all, err := store.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	rest, err := store.SnapshotsAfter(all[0].Index)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.True(t, rest[0].Snapshot.TotalValueUSDT.Equal(decimal.NewFromInt(2)))

	none, err := store.SnapshotsAfter(all[1].Index)
	require.NoError(t, err)
	assert.Empty(t, none)
}
