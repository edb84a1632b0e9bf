package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadintel/server/internal/models"
	"leadintel/server/internal/retry"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return newStore(mock, logger), mock
}

var listingColumns = []string{
	"street_address", "city", "state", "zip_code", "orig_list_price", "list_price", "dom",
	"expire_date", "property_type", "bed", "bath", "year_built", "list_agent_email",
	"list_agent_phone", "list_agent_name",
}

func TestStore_SearchListings(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM calling_personalization_expired_data\s+WHERE street_address ILIKE \$1 AND city ILIKE \$2 AND state ILIKE \$3 AND zip_code::text ILIKE \$4\s+LIMIT \$5`).
		WithArgs("12 Main%", "Lexington%", "MA%", "02420%", 10).
		WillReturnRows(pgxmock.NewRows(listingColumns).
			AddRow("12 Main St", "Lexington", "MA", "2420", 1100000.0, 1000000.0, 94,
				"2024-05-01", "Single Family", 4.0, 2.5, 1962, "jane@example.com",
				"617-555-0101", "Jane Broker"))

	listings, err := store.SearchListings(context.Background(),
		models.AddressQuery{Street: "12 Main", City: "Lexington", State: "MA", Zip: "02420"}, 10)

	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "12 Main St", listings[0].StreetAddress)
	assert.Equal(t, "2420", listings[0].ZipCode)
	assert.Equal(t, 1000000.0, listings[0].ListPrice)
	assert.Equal(t, 94, listings[0].Dom)
	assert.Equal(t, "Jane Broker", listings[0].ListAgentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SearchListings_StreetOnlyEscapesWildcards(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`WHERE street_address ILIKE \$1\s+LIMIT \$2`).
		WithArgs(`100\% Main%`, 5).
		WillReturnRows(pgxmock.NewRows(listingColumns))

	listings, err := store.SearchListings(context.Background(), models.AddressQuery{Street: "100% Main"}, 5)

	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SearchListings_EmptyQuery(t *testing.T) {
	store, mock := newMockStore(t)

	listings, err := store.SearchListings(context.Background(), models.AddressQuery{}, 10)

	require.NoError(t, err)
	assert.Nil(t, listings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CompPool(t *testing.T) {
	store, mock := newMockStore(t)
	since := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM email_listing_service_mlsoldsolddata\s+WHERE zip_code = \$1 AND close_date >= \$2`).
		WithArgs("02420", "2023-06-01", 100).
		WillReturnRows(pgxmock.NewRows([]string{
			"address", "street_address", "city", "state", "zip_code", "bed", "bath", "sqft",
			"close_date", "current_price", "orig_list_price", "dom", "list_agent_name", "list_agent_phone",
		}).
			AddRow("3 Oak Rd", "", "Lexington", "MA", "02420", 4.0, 3.0, 2350,
				"2024-02-10", 1030000.0, 1000000.0, 21, "Bob Quick", "617-555-0202").
			AddRow("", "5 Pine Ln", "Lexington", "MA", "2420", 3.0, 2.0, 1500,
				"2023-11-02", 900000.0, 950000.0, 35, "", ""))

	comps, err := store.CompPool(context.Background(), "2420", since, 100)

	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Equal(t, "3 Oak Rd", comps[0].Address)
	assert.Equal(t, 1030000.0, comps[0].CurrentPrice)
	assert.Equal(t, 2350, comps[0].Sqft)
	assert.Equal(t, "5 Pine Ln", comps[1].StreetAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CompPool_Error(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM email_listing_service_mlsoldsolddata").
		WillReturnError(errors.New("connection reset by peer"))

	comps, err := store.CompPool(context.Background(), "02420", time.Now(), 100)

	require.Error(t, err)
	assert.Nil(t, comps)
	assert.Contains(t, err.Error(), "postgres: comp pool")
	assert.False(t, retry.IsTimeout(err))
}

var topAgentColumns = []string{
	"agent_name", "agent_phone", "agent_email", "zip_code",
	"sell_transactions_last_1yr", "sell_transactions_last_3yr",
	"seller_transactions_last_1yr_zipcode", "seller_transactions_last_3yr_zipcode",
	"avg_property_price_seller", "median_dom_last_3yr_seller", "top_producer", "fast_seller",
}

func TestStore_TopAgents(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM get_top_40_agents_by_zip_v5`).
		WithArgs("02420", 3, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(topAgentColumns).
			AddRow("Alice Top", "617-555-0000", "alice@example.com", "02420", 30, 80, 12, 30, 1150000.0, 14.0, true, false).
			AddRow("Bob Quick", "617-555-0202", "", "02420", 22, 51, 9, 20, 990000.0, 9.0, false, true))

	agents, err := store.TopAgents(context.Background(),
		models.TopAgentQuery{Zip: "2420", AgentName: "Jane Broker", Limit: 3})

	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "Alice Top", agents[0].AgentName)
	assert.Equal(t, 30, agents[0].SellTransactionsLast1yr)
	assert.True(t, agents[0].TopProducer)
	assert.True(t, agents[1].FastSeller)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TopAgents_StatementTimeout(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM get_top_40_agents_by_zip_v5`).
		WithArgs("02420", 3, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"})

	_, err := store.TopAgents(context.Background(), models.TopAgentQuery{Zip: "02420", Limit: 3})

	require.Error(t, err)
	assert.True(t, retry.IsTimeout(err))

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TopAgents_RetriedOnTimeout(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM get_top_40_agents_by_zip_v5`).
		WithArgs("02420", 3, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "57014"})
	mock.ExpectQuery(`FROM get_top_40_agents_by_zip_v5`).
		WithArgs("02420", 3, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(topAgentColumns).
			AddRow("Alice Top", "617-555-0000", "", "02420", 30, 80, 12, 30, 1150000.0, 14.0, true, false))

	policy := retry.TimeoutPolicy(3, time.Millisecond)
	agents, err := retry.Do(context.Background(), policy, func(ctx context.Context) ([]models.RawTopAgent, error) {
		return store.TopAgents(ctx, models.TopAgentQuery{Zip: "02420", Limit: 3})
	})

	require.NoError(t, err)
	assert.Len(t, agents, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AgentPerformance(t *testing.T) {
	tests := []struct {
		name             string
		payload          string
		expectNil        bool
		expectedAvgDom   float64
		expectedActivity int
	}{
		{
			name:             "Object root",
			payload:          `{"performance":{"avg_dom_agent":24,"avg_dom_zip":18,"agent_txn_12mo_zip":8},"nearby_activity":[{"address":"8 Cedar St","sold_date":"2024-01-05","sold_price":980000}]}`,
			expectedAvgDom:   24,
			expectedActivity: 1,
		},
		{
			name:             "Array root",
			payload:          `[{"performance":{"avg_dom_agent":31},"nearby_activity":[]}]`,
			expectedAvgDom:   31,
			expectedActivity: 0,
		},
		{
			name:             "Wrapped under procedure name",
			payload:          `[{"get_previous_agent_performance":{"performance":{"avg_dom_agent":12}}}]`,
			expectedAvgDom:   12,
			expectedActivity: 0,
		},
		{
			name:      "Null result",
			payload:   ``,
			expectNil: true,
		},
		{
			name:      "Empty object",
			payload:   `{}`,
			expectNil: true,
		},
		{
			name:      "Empty array",
			payload:   `[]`,
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)

			mock.ExpectQuery(`get_previous_agent_performance`).
				WithArgs("jane@example.com", "617-555-0101", "02420").
				WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(tt.payload))

			perf, err := store.AgentPerformance(context.Background(), " Jane@Example.com ", " 617-555-0101", "2420")

			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, perf)
			} else {
				require.NotNil(t, perf)
				require.NotNil(t, perf.Performance)
				assert.Equal(t, tt.expectedAvgDom, perf.Performance.AvgDomAgent)
				assert.Len(t, perf.NearbyActivity, tt.expectedActivity)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_AgentPerformance_MalformedPayload(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`get_previous_agent_performance`).
		WithArgs("jane@example.com", "617-555-0101", "02420").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(`{"performance":`))

	perf, err := store.AgentPerformance(context.Background(), "jane@example.com", "617-555-0101", "02420")

	require.Error(t, err)
	assert.Nil(t, perf)
}

func TestStore_ActiveInventory(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM listing_service_active_data`).
		WithArgs("02420").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(47))

	count, err := store.ActiveInventory(context.Background(), "2420")

	require.NoError(t, err)
	assert.Equal(t, 47, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeAgentPerformance_Null(t *testing.T) {
	perf, err := decodeAgentPerformance([]byte(" null "))
	require.NoError(t, err)
	assert.Nil(t, perf)

	perf, err = decodeAgentPerformance([]byte(`{"get_previous_agent_performance":null}`))
	require.NoError(t, err)
	assert.Nil(t, perf)
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))
	assert.Nil(t, optional("   "))

	v := optional(" Jane Broker ")
	require.NotNil(t, v)
	assert.Equal(t, "Jane Broker", *v)
}
