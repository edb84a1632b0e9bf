// Package dashboard assembles lead reports from the data store and the
// pure engines. It is the only layer that talks to a DataSource.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"leadintel/server/config"
	"leadintel/server/internal/cma"
	"leadintel/server/internal/ingest"
	"leadintel/server/internal/models"
	"leadintel/server/internal/narrative"
	"leadintel/server/internal/retry"
)

var (
	ErrNotFound          = errors.New("no listing matches the address")
	ErrInsufficientInput = errors.New("not enough identifying fields")
)

// DataSource is the read-only store behind the dashboard.
// AgentPerformance returns nil without an error when the agent is unknown.
type DataSource interface {
	SearchListings(ctx context.Context, q models.AddressQuery, limit int) ([]models.RawListing, error)
	CompPool(ctx context.Context, zip string, since time.Time, limit int) ([]models.RawComp, error)
	TopAgents(ctx context.Context, q models.TopAgentQuery) ([]models.RawTopAgent, error)
	AgentPerformance(ctx context.Context, email, phone, zip string) (*models.RawAgentPerformance, error)
	ActiveInventory(ctx context.Context, zip string) (int, error)
}

type Service struct {
	source    DataSource
	config    *config.Config
	policy    *cma.Policy
	ranking   retry.Policy
	narrative *narrative.Generator
	logger    *logrus.Logger
	now       func() time.Time
}

// Suggestion is one address search hit.
type Suggestion struct {
	Display string                 `json:"display"`
	Street  string                 `json:"street"`
	City    string                 `json:"city"`
	State   string                 `json:"state"`
	Zip     string                 `json:"zip"`
	Listing models.SubjectProperty `json:"listing"`
}

// NewService wires a dashboard over source. A nil generator serves only
// fallback talking points.
func NewService(source DataSource, cfg *config.Config, gen *narrative.Generator, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if gen == nil {
		gen = narrative.NewGenerator(nil, 0, logger)
	}

	ranking := retry.TimeoutPolicy(cfg.AgentRanking.MaxAttempts, cfg.AgentRanking.RetryBackoff).
		WithLogger(logger, "top_agents")

	return &Service{
		source:    source,
		config:    cfg,
		policy:    cma.NewPolicy(cfg.CMA.PriceFilterExemptStates),
		ranking:   ranking,
		narrative: gen,
		logger:    logger,
		now:       time.Now,
	}
}

// Search returns up to the configured number of listings matching text.
// Queries shorter than the minimum length return nothing without touching
// the store.
func (s *Service) Search(ctx context.Context, text string) ([]Suggestion, error) {
	text = strings.TrimSpace(text)
	if len(text) < s.config.Search.MinQueryLength {
		return []Suggestion{}, nil
	}

	q := ingest.ParseAddressQuery(text)
	if q.IsEmpty() {
		return []Suggestion{}, nil
	}

	rows, err := fetch(ctx, s, func(ctx context.Context) ([]models.RawListing, error) {
		return s.source.SearchListings(ctx, q, s.config.Search.Limit)
	})
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(rows))
	for _, row := range rows {
		subject := ingest.Subject(row)
		suggestions = append(suggestions, Suggestion{
			Display: subject.Address,
			Street:  subject.Street,
			City:    subject.City,
			State:   subject.State,
			Zip:     subject.Zip,
			Listing: subject,
		})
	}
	return suggestions, nil
}

// Lookup resolves a free-text address to the first matching listing.
func (s *Service) Lookup(ctx context.Context, address string) (models.SubjectProperty, error) {
	if len(strings.TrimSpace(address)) < s.config.Search.MinQueryLength {
		return models.SubjectProperty{}, ErrInsufficientInput
	}

	suggestions, err := s.Search(ctx, address)
	if err != nil {
		return models.SubjectProperty{}, err
	}
	if len(suggestions) == 0 {
		return models.SubjectProperty{}, ErrNotFound
	}
	return suggestions[0].Listing, nil
}

// TopAgents returns the zip ranking with the subject's own agent flagged.
// Timeouts are retried under the agent-ranking policy.
func (s *Service) TopAgents(ctx context.Context, zip, agentName, agentPhone string) ([]models.TopAgent, error) {
	zip = ingest.NormalizeZip(zip)
	if zip == "" {
		return nil, ErrInsufficientInput
	}

	q := models.TopAgentQuery{
		Zip:        zip,
		AgentName:  strings.TrimSpace(agentName),
		AgentPhone: strings.TrimSpace(agentPhone),
		Limit:      s.config.AgentRanking.Limit,
	}
	rows, err := retry.Do(ctx, s.ranking, func(ctx context.Context) ([]models.RawTopAgent, error) {
		return fetch(ctx, s, func(ctx context.Context) ([]models.RawTopAgent, error) {
			return s.source.TopAgents(ctx, q)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("top agents: %w", err)
	}
	return ingest.TopAgents(rows, q.AgentName, q.AgentPhone), nil
}

// CMA fetches the comp pool for subject and prices it.
func (s *Service) CMA(ctx context.Context, subject models.SubjectProperty) (cma.Analysis, error) {
	if subject.Zip == "" {
		return cma.Analysis{}, ErrInsufficientInput
	}

	pool, err := s.compPool(ctx, subject.Zip, s.now())
	if err != nil {
		return cma.Analysis{}, fmt.Errorf("comp pool: %w", err)
	}
	return s.analyze(subject, pool), nil
}

func (s *Service) compPool(ctx context.Context, zip string, now time.Time) ([]models.Comp, error) {
	since := now.AddDate(0, -s.config.CMA.CompWindowMonths, 0)
	rows, err := fetch(ctx, s, func(ctx context.Context) ([]models.RawComp, error) {
		return s.source.CompPool(ctx, zip, since, s.config.CMA.CompPoolLimit)
	})
	if err != nil {
		return nil, err
	}
	return ingest.Comps(rows, zip), nil
}

// fetch runs one store call under the configured query timeout.
func fetch[T any](ctx context.Context, s *Service, fn func(ctx context.Context) (T, error)) (T, error) {
	if s.config.Store.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Store.QueryTimeout)
		defer cancel()
	}
	return fn(ctx)
}
