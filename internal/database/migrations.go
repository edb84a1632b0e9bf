package database

import "fmt"

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(
		&ExpiredListing{},
		&SoldListing{},
		&ActiveListing{},
		&AgentPerformance{},
		&AgentActivity{},
		&ZipTopAgent{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	// Prefix search on the expired listing address columns
	if err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_expired_street_nocase
		ON expired_listings(street_address COLLATE NOCASE);
	`).Error; err != nil {
		return fmt.Errorf("failed to create address index: %w", err)
	}

	return nil
}
