// Package postgres reads leads, comps and agent metrics from the remote
// Postgres store.
package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"leadintel/server/internal/ingest"
	"leadintel/server/internal/models"
)

// pool is the subset of pgxpool.Pool the store uses.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type Store struct {
	pool   pool
	logger *logrus.Logger
}

// New connects to databaseURL and verifies the connection.
func New(ctx context.Context, databaseURL string, logger *logrus.Logger) (*Store, error) {
	p, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return newStore(p, logger), nil
}

func newStore(p pool, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{pool: p, logger: logger}
}

func (s *Store) Close() { s.pool.Close() }

const searchSQL = `
SELECT COALESCE(street_address, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip_code::text, ''),
       COALESCE(orig_list_price, 0)::float8, COALESCE(list_price, 0)::float8, COALESCE(dom, 0)::int,
       COALESCE(expire_date::text, ''), COALESCE(property_type, ''), COALESCE(bed, 0)::float8,
       COALESCE(bath, 0)::float8, COALESCE(year_built, 0)::int, COALESCE(list_agent_email, ''),
       COALESCE(list_agent_phone, ''), COALESCE(list_agent_name, '')
FROM calling_personalization_expired_data`

// SearchListings matches each set query field as a case-insensitive prefix.
func (s *Store) SearchListings(ctx context.Context, q models.AddressQuery, limit int) ([]models.RawListing, error) {
	if q.IsEmpty() {
		return nil, nil
	}

	var where []string
	var args []any
	for _, f := range []struct{ column, value string }{
		{"street_address", q.Street},
		{"city", q.City},
		{"state", q.State},
		{"zip_code::text", q.Zip},
	} {
		if f.value == "" {
			continue
		}
		args = append(args, escapeLike(f.value)+"%")
		where = append(where, fmt.Sprintf("%s ILIKE $%d", f.column, len(args)))
	}
	args = append(args, limit)
	sql := fmt.Sprintf("%s\nWHERE %s\nLIMIT $%d", searchSQL, strings.Join(where, " AND "), len(args))

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: search listings: %w", err)
	}
	defer rows.Close()

	var listings []models.RawListing
	for rows.Next() {
		var l models.RawListing
		if err := rows.Scan(
			&l.StreetAddress, &l.City, &l.State, &l.ZipCode,
			&l.OrigListPrice, &l.ListPrice, &l.Dom,
			&l.ExpireDate, &l.PropertyType, &l.Bed,
			&l.Bath, &l.YearBuilt, &l.ListAgentEmail,
			&l.ListAgentPhone, &l.ListAgentName,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: search listings: %w", err)
	}
	return listings, nil
}

const compPoolSQL = `
SELECT COALESCE(address, ''), COALESCE(street_address, ''), COALESCE(city, ''), COALESCE(state, ''),
       COALESCE(zip_code::text, ''), COALESCE(bed, 0)::float8, COALESCE(bath, 0)::float8,
       COALESCE(sqft, 0)::int, COALESCE(close_date::text, ''), COALESCE(current_price, 0)::float8,
       COALESCE(orig_list_price, 0)::float8, COALESCE(dom, 0)::int, COALESCE(list_agent_name, ''),
       COALESCE(list_agent_phone, '')
FROM email_listing_service_mlsoldsolddata
WHERE zip_code = $1 AND close_date >= $2
LIMIT $3`

// CompPool returns sold listings in zip closed on or after since.
func (s *Store) CompPool(ctx context.Context, zip string, since time.Time, limit int) ([]models.RawComp, error) {
	rows, err := s.pool.Query(ctx, compPoolSQL, ingest.NormalizeZip(zip), since.Format("2006-01-02"), limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: comp pool: %w", err)
	}
	defer rows.Close()

	var comps []models.RawComp
	for rows.Next() {
		var c models.RawComp
		if err := rows.Scan(
			&c.Address, &c.StreetAddress, &c.City, &c.State,
			&c.ZipCode, &c.Bed, &c.Bath,
			&c.Sqft, &c.CloseDate, &c.CurrentPrice,
			&c.OrigListPrice, &c.Dom, &c.ListAgentName,
			&c.ListAgentPhone,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan comp: %w", err)
		}
		comps = append(comps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: comp pool: %w", err)
	}
	return comps, nil
}

const topAgentsSQL = `
SELECT COALESCE(agent_name, ''), COALESCE(agent_phone, ''), COALESCE(agent_email, ''), COALESCE(zip_code::text, ''),
       COALESCE(sell_transactions_last_1yr, 0)::int, COALESCE(sell_transactions_last_3yr, 0)::int,
       COALESCE(seller_transactions_last_1yr_zipcode, 0)::int, COALESCE(seller_transactions_last_3yr_zipcode, 0)::int,
       COALESCE(avg_property_price_seller, 0)::float8, COALESCE(median_dom_last_3yr_seller, 0)::float8,
       COALESCE(top_producer, false), COALESCE(fast_seller, false)
FROM get_top_40_agents_by_zip_v5(
       p_zip => $1, p_limit => $2, p_offset => 0,
       p_expired_list_agent_name => $3, p_expired_list_agent_phone => $4)`

// TopAgents calls the zip ranking procedure. It may be slow for dense zips
// and fail with a statement timeout; callers decide whether to retry.
func (s *Store) TopAgents(ctx context.Context, q models.TopAgentQuery) ([]models.RawTopAgent, error) {
	rows, err := s.pool.Query(ctx, topAgentsSQL,
		ingest.NormalizeZip(q.Zip), q.Limit, optional(q.AgentName), optional(q.AgentPhone))
	if err != nil {
		return nil, fmt.Errorf("postgres: top agents: %w", err)
	}
	defer rows.Close()

	var agents []models.RawTopAgent
	for rows.Next() {
		var a models.RawTopAgent
		if err := rows.Scan(
			&a.AgentName, &a.AgentPhone, &a.AgentEmail, &a.ZipCode,
			&a.SellTransactionsLast1yr, &a.SellTransactionsLast3yr,
			&a.SellerTransactionsLast1yrZip, &a.SellerTransactionsLast3yrZip,
			&a.AvgPropertyPriceSeller, &a.MedianDomLast3yrSeller,
			&a.TopProducer, &a.FastSeller,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan top agent: %w", err)
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: top agents: %w", err)
	}
	return agents, nil
}

const agentPerformanceSQL = `
SELECT COALESCE(get_previous_agent_performance(
       p_agent_email => $1, p_agent_phone => $2, p_zip => $3)::text, '')`

// AgentPerformance returns nil without an error when the procedure has no
// record for the agent.
func (s *Store) AgentPerformance(ctx context.Context, email, phone, zip string) (*models.RawAgentPerformance, error) {
	var payload string
	err := s.pool.QueryRow(ctx, agentPerformanceSQL,
		strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(phone), ingest.NormalizeZip(zip)).
		Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("postgres: agent performance: %w", err)
	}

	perf, err := decodeAgentPerformance([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("postgres: agent performance: %w", err)
	}
	if perf == nil {
		s.logger.WithFields(logrus.Fields{"zip": zip}).Debug("No agent performance record")
	}
	return perf, nil
}

const activeInventorySQL = `
SELECT COUNT(*)::int
FROM listing_service_active_data
WHERE zip_code = $1`

// ActiveInventory counts active listings in zip.
func (s *Store) ActiveInventory(ctx context.Context, zip string) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, activeInventorySQL, ingest.NormalizeZip(zip)).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: active inventory: %w", err)
	}
	return count, nil
}

// decodeAgentPerformance accepts the procedure payload as an object, as a
// single-element array, or wrapped under the procedure name. It returns nil
// when neither performance nor activity is present.
func decodeAgentPerformance(payload []byte) (*models.RawAgentPerformance, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil, nil
	}

	if payload[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, nil
		}
		payload = bytes.TrimSpace(items[0])
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(payload, &wrapper); err != nil {
		return nil, err
	}
	if inner, ok := wrapper["get_previous_agent_performance"]; ok {
		return decodeAgentPerformance(inner)
	}

	var perf models.RawAgentPerformance
	if err := json.Unmarshal(payload, &perf); err != nil {
		return nil, err
	}
	if perf.Performance == nil && len(perf.NearbyActivity) == 0 {
		return nil, nil
	}
	return &perf, nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
