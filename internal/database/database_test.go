package database

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadintel/server/internal/models"
)

var dbCounter atomic.Int64

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	dsn := fmt.Sprintf("file:leadintel_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := NewDatabase(dsn, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())

	fixture, err := LoadFixture("testdata/fixture.json")
	require.NoError(t, err)
	require.NoError(t, db.Seed(fixture))
	return db
}

func TestLoadFixture(t *testing.T) {
	fixture, err := LoadFixture("testdata/fixture.json")
	require.NoError(t, err)

	assert.Len(t, fixture.ExpiredListings, 3)
	assert.Len(t, fixture.SoldListings, 4)
	assert.Len(t, fixture.ActiveListings, 3)
	require.Len(t, fixture.AgentPerformance, 1)
	require.NotNil(t, fixture.AgentPerformance[0].Performance)
	assert.Len(t, fixture.AgentPerformance[0].NearbyActivity, 2)
	assert.Len(t, fixture.TopAgents, 5)

	_, err = LoadFixture("testdata/missing.json")
	assert.Error(t, err)
}

func TestDatabase_SearchListings(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    models.AddressQuery
		limit    int
		expected []string
	}{
		{
			name:     "Street prefix",
			query:    models.AddressQuery{Street: "12"},
			limit:    10,
			expected: []string{"12 Main St", "120 Main St"},
		},
		{
			name:     "Case-insensitive city",
			query:    models.AddressQuery{Street: "12", City: "lex"},
			limit:    10,
			expected: []string{"12 Main St", "120 Main St"},
		},
		{
			name:     "Limit",
			query:    models.AddressQuery{Street: "12"},
			limit:    1,
			expected: []string{"12 Main St"},
		},
		{
			name:     "Zip stored normalized",
			query:    models.AddressQuery{Street: "12 Main", City: "Lexington", State: "MA", Zip: "02420"},
			limit:    10,
			expected: []string{"12 Main St"},
		},
		{
			name:     "Wildcards are literal",
			query:    models.AddressQuery{Street: "%"},
			limit:    10,
			expected: []string{},
		},
		{
			name:     "No match",
			query:    models.AddressQuery{Street: "999"},
			limit:    10,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings, err := db.SearchListings(ctx, tt.query, tt.limit)
			require.NoError(t, err)

			streets := make([]string, 0, len(listings))
			for _, l := range listings {
				streets = append(streets, l.StreetAddress)
			}
			assert.Equal(t, tt.expected, streets)
		})
	}

	t.Run("Empty query", func(t *testing.T) {
		listings, err := db.SearchListings(ctx, models.AddressQuery{}, 10)
		require.NoError(t, err)
		assert.Empty(t, listings)
	})
}

func TestDatabase_CompPool(t *testing.T) {
	db := newTestDatabase(t)
	since := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	comps, err := db.CompPool(context.Background(), "2420", since, 100)
	require.NoError(t, err)

	var addresses []string
	for _, c := range comps {
		addresses = append(addresses, c.Address)
	}
	assert.Equal(t, []string{"3 Oak Rd", "5 Pine Ln"}, addresses)
	assert.Equal(t, "02420", comps[1].ZipCode)
	require.NotNil(t, comps[0].Latitude)
	assert.Equal(t, 42.45, *comps[0].Latitude)

	limited, err := db.CompPool(context.Background(), "02420", since, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDatabase_TopAgents(t *testing.T) {
	db := newTestDatabase(t)

	agents, err := db.TopAgents(context.Background(), models.TopAgentQuery{Zip: "2420", Limit: 3})
	require.NoError(t, err)

	require.Len(t, agents, 3)
	assert.Equal(t, "Alice Top", agents[0].AgentName)
	assert.True(t, agents[0].TopProducer)
	assert.Equal(t, "Bob Quick", agents[1].AgentName)
	assert.Equal(t, "Jane Broker", agents[2].AgentName)

	none, err := db.TopAgents(context.Background(), models.TopAgentQuery{Zip: "99999", Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDatabase_AgentPerformance(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	t.Run("Found with normalized inputs", func(t *testing.T) {
		perf, err := db.AgentPerformance(ctx, " JANE@example.com", "617-555-0101 ", "2420")
		require.NoError(t, err)
		require.NotNil(t, perf)
		require.NotNil(t, perf.Performance)

		assert.Equal(t, float64(24), perf.Performance.AvgDomAgent)
		assert.Equal(t, 120, perf.Performance.ZipTxn12mo)
		require.Len(t, perf.NearbyActivity, 2)
		assert.Equal(t, "8 Cedar St", perf.NearbyActivity[0].Address)
	})

	t.Run("Not found", func(t *testing.T) {
		perf, err := db.AgentPerformance(ctx, "nobody@example.com", "000", "02420")
		require.NoError(t, err)
		assert.Nil(t, perf)
	})
}

func TestDatabase_ActiveInventory(t *testing.T) {
	db := newTestDatabase(t)

	count, err := db.ActiveInventory(context.Background(), "02420")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = db.ActiveInventory(context.Background(), "10001")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDatabase_SeedReplacesContents(t *testing.T) {
	db := newTestDatabase(t)

	require.NoError(t, db.Seed(&Fixture{
		ExpiredListings: []models.RawListing{{StreetAddress: "1 New St", ZipCode: "02420"}},
	}))

	listings, err := db.SearchListings(context.Background(), models.AddressQuery{Street: "1"}, 10)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "1 New St", listings[0].StreetAddress)

	count, err := db.ActiveInventory(context.Background(), "02420")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_sale\\`, escapeLike(`50% off_sale\`))
	assert.False(t, strings.Contains(escapeLike("plain"), `\`))
}
