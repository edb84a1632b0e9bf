// Package database is the local SQLite snapshot of the lead store. It serves
// the same read contract as the remote Postgres store and is seeded from a
// JSON fixture for local runs and tests.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"leadintel/server/internal/ingest"
	"leadintel/server/internal/models"
)

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	if logger == nil {
		logger = logrus.New()
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Database{db: db, logger: logger}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SearchListings matches each set query field as a case-insensitive prefix.
func (d *Database) SearchListings(ctx context.Context, q models.AddressQuery, limit int) ([]models.RawListing, error) {
	if q.IsEmpty() {
		return nil, nil
	}

	tx := d.db.WithContext(ctx).Model(&ExpiredListing{})
	filters := []struct{ column, value string }{
		{"street_address", q.Street},
		{"city", q.City},
		{"state", q.State},
		{"zip_code", q.Zip},
	}
	for _, f := range filters {
		if f.value != "" {
			tx = tx.Where(f.column+" LIKE ? ESCAPE '\\'", escapeLike(f.value)+"%")
		}
	}

	var rows []ExpiredListing
	if err := tx.Order("id").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	listings := make([]models.RawListing, 0, len(rows))
	for _, r := range rows {
		listings = append(listings, r.raw())
	}
	return listings, nil
}

// CompPool returns sold listings in zip closed on or after since.
func (d *Database) CompPool(ctx context.Context, zip string, since time.Time, limit int) ([]models.RawComp, error) {
	var rows []SoldListing
	err := d.db.WithContext(ctx).
		Where("zip_code = ? AND close_date >= ?", ingest.NormalizeZip(zip), since.Format("2006-01-02")).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comp pool: %w", err)
	}

	comps := make([]models.RawComp, 0, len(rows))
	for _, r := range rows {
		comps = append(comps, r.raw())
	}
	return comps, nil
}

// TopAgents returns the precomputed ranking for a zip, best first.
func (d *Database) TopAgents(ctx context.Context, q models.TopAgentQuery) ([]models.RawTopAgent, error) {
	var rows []ZipTopAgent
	err := d.db.WithContext(ctx).
		Where("zip_code = ?", ingest.NormalizeZip(q.Zip)).
		Order("ranking").
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top agents: %w", err)
	}

	agents := make([]models.RawTopAgent, 0, len(rows))
	for _, r := range rows {
		agents = append(agents, r.raw())
	}
	return agents, nil
}

// AgentPerformance returns nil without an error when the agent has no record
// in zip.
func (d *Database) AgentPerformance(ctx context.Context, email, phone, zip string) (*models.RawAgentPerformance, error) {
	var row AgentPerformance
	err := d.db.WithContext(ctx).
		Preload("Activity", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("LOWER(agent_email) = ? AND agent_phone = ? AND zip_code = ?",
			strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(phone), ingest.NormalizeZip(zip)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agent performance: %w", err)
	}
	return row.raw(), nil
}

// ActiveInventory counts active listings in zip.
func (d *Database) ActiveInventory(ctx context.Context, zip string) (int, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&ActiveListing{}).
		Where("zip_code = ?", ingest.NormalizeZip(zip)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active inventory: %w", err)
	}
	return int(count), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
