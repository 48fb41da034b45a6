package storage_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/roadtrip-planner/internal/poi"
	"github.com/neexbeast/roadtrip-planner/internal/storage"
	"github.com/neexbeast/roadtrip-planner/internal/trip"
)

var _ trip.Store = (*storage.MemoryStore)(nil)
var _ trip.Store = (*storage.PlanRepository)(nil)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	plan := samplePlan("trip-1", time.Now().UTC(), poi.Museums)
	require.NoError(t, store.Save(ctx, plan))

	got, err := store.Get(ctx, "trip-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "trip-1", got.ID)
	assert.Equal(t, poi.Museums, got.POIs[0].Category)

	require.NoError(t, store.Delete(ctx, "trip-1"))
	got, err = store.Get(ctx, "trip-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Delete(ctx, "never-existed"))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	plan := samplePlan("trip-1", time.Now().UTC(), poi.Parks)
	require.NoError(t, store.Save(ctx, plan))

	plan.POIs[0].Name = "mutated after save"
	got, err := store.Get(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, "Stop 0", got.POIs[0].Name)

	got.TotalDistanceKm = -1
	again, err := store.Get(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, 233.4, again.TotalDistanceKm)
}

func TestMemoryStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	now := time.Now().UTC()
	require.NoError(t, store.Save(ctx, samplePlan("trip-1", now, poi.Parks)))
	require.NoError(t, store.Save(ctx, samplePlan("trip-1", now, poi.Museums, poi.Nightlife)))

	plans, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Len(t, plans[0].POIs, 2)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, samplePlan("old", base)))
	require.NoError(t, store.Save(ctx, samplePlan("new", base.Add(2*time.Hour))))
	require.NoError(t, store.Save(ctx, samplePlan("mid", base.Add(time.Hour))))

	plans, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "new", plans[0].ID)
	assert.Equal(t, "mid", plans[1].ID)
	assert.Equal(t, "old", plans[2].ID)
}

func TestMemoryStore_ListByCategory(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	now := time.Now().UTC()
	require.NoError(t, store.Save(ctx, samplePlan("museums", now, poi.Museums, poi.Restaurants)))
	require.NoError(t, store.Save(ctx, samplePlan("parks", now, poi.Parks)))

	plans, err := store.ListByCategory(ctx, string(poi.Museums))
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "museums", plans[0].ID)

	plans, err = store.ListByCategory(ctx, string(poi.Nightlife))
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestMemoryStore_ConcurrentWritesToDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, samplePlan(fmt.Sprintf("trip-%d", i), time.Now().UTC())))
		}()
	}
	wg.Wait()

	plans, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 50)
}
