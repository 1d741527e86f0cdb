package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fleet_scraper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	db, err := New(filepath.Join(t.TempDir(), "test_fleet.db"))
	require.NoError(t, err)
	require.NotNil(t, db)

	return db
}

func cleanupTestDB(t *testing.T, db *DB) {
	if db != nil {
		err := db.Close()
		assert.NoError(t, err)
	}
}

func testFleet(entries ...string) *models.FleetResult {
	fleet := models.NewFleetResult()
	for _, tail := range entries {
		fleet.Set(tail, models.AircraftDetails{Price: "$165", Year: "2008"})
	}
	return fleet
}

func TestNew(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	assert.NotNil(t, db)
}

func TestNew_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := New(path)
	require.NoError(t, err)
	_, err = db.Runs().InsertRun(context.Background(), &models.ScrapeRun{
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Fleet:      testFleet("N5320J"),
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer cleanupTestDB(t, db)

	run, err := db.Runs().LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"N5320J"}, run.Fleet.Keys())
}

func TestLatestRun_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	run, err := db.Runs().LatestRun(context.Background())
	assert.Nil(t, run)
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestInsertRun_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	ctx := context.Background()
	repo := db.Runs()

	fleet := models.NewFleetResult()
	fleet.Set("N20NX", models.AircraftDetails{Price: "$189", Year: "2019", Type: models.TypeNXi})
	fleet.Set("N5320J", models.AircraftDetails{})

	started := time.Now().Add(-time.Minute)
	run := &models.ScrapeRun{
		StartedAt:  started,
		FinishedAt: started.Add(30 * time.Second),
		Fleet:      fleet,
		BlobURL:    "https://store.public.blob.vercel-storage.com/fleet.json",
	}

	id, err := repo.InsertRun(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)

	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err)

	assert.Equal(t, id, latest.ID)
	assert.Equal(t, []string{"N20NX", "N5320J"}, latest.Fleet.Keys())
	assert.Equal(t, run.BlobURL, latest.BlobURL)
	assert.WithinDuration(t, run.FinishedAt, latest.FinishedAt, time.Second)

	d, ok := latest.Fleet.Get("N20NX")
	require.True(t, ok)
	assert.Equal(t, models.AircraftDetails{Price: "$189", Year: "2019", Type: "nxi"}, d)
}

func TestInsertRun_EmptyFleet(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	_, err := db.Runs().InsertRun(context.Background(), &models.ScrapeRun{
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	})
	require.NoError(t, err)

	latest, err := db.Runs().LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, latest.Fleet.Len())
	assert.Empty(t, latest.BlobURL)
}

func TestLatestRun_PicksNewest(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	ctx := context.Background()
	repo := db.Runs()
	base := time.Now().Add(-time.Hour)

	_, err := repo.InsertRun(ctx, &models.ScrapeRun{StartedAt: base, FinishedAt: base.Add(time.Minute), Fleet: testFleet("N111AA")})
	require.NoError(t, err)
	_, err = repo.InsertRun(ctx, &models.ScrapeRun{StartedAt: base, FinishedAt: base.Add(2 * time.Minute), Fleet: testFleet("N222BB")})
	require.NoError(t, err)

	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"N222BB"}, latest.Fleet.Keys())
}

func TestAircraftHistory(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	ctx := context.Background()
	repo := db.Runs()
	base := time.Now().Add(-24 * time.Hour)

	prices := []string{"$155", "$160", "$165"}
	for i, price := range prices {
		fleet := models.NewFleetResult()
		fleet.Set("N5320J", models.AircraftDetails{Price: price})
		fleet.Set("N20NX", models.AircraftDetails{Price: "$189"})
		finished := base.Add(time.Duration(i) * time.Hour)
		_, err := repo.InsertRun(ctx, &models.ScrapeRun{StartedAt: finished, FinishedAt: finished, Fleet: fleet})
		require.NoError(t, err)
	}

	history, err := repo.AircraftHistory(ctx, "N5320J", 2)
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "$165", history[0].Details.Price)
	assert.Equal(t, "$160", history[1].Details.Price)
	assert.Equal(t, "N5320J", history[0].TailNumber)
	assert.True(t, history[0].ScrapedAt.After(history[1].ScrapedAt))

	none, err := repo.AircraftHistory(ctx, "N000XX", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
