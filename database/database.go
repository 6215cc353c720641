package database

import (
	"database/sql"
	"fmt"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type DB struct {
	*sql.DB
}

var Database *DB

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Database = &DB{db}
	return Database, nil
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	// Enable pgcrypto extension
	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`); err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	// Order respects foreign key dependencies
	tables := []interface{}{
		models.User{},
		models.TeamMember{},
		models.Customer{},
		models.PipelineOpportunity{},
	}

	for _, model := range tables {
		if tableModel, ok := model.(interface {
			TableName() string
			CreateTableSQL() string
		}); ok {
			tableName := tableModel.TableName()
			createSQL := tableModel.CreateTableSQL()

			logrus.WithField("table", tableName).Info("Creating table")
			if _, err := db.Exec(createSQL); err != nil {
				return fmt.Errorf("failed to create table %s: %w", tableName, err)
			}
		}
	}

	// Run schema migrations
	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("All tables created successfully")
	return nil
}

// runMigrations handles schema updates for existing tables
func (db *DB) runMigrations() error {
	migrations := []string{
		// Interests started life as a loose text column on older installs
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS interests JSONB DEFAULT '[]';`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS next_follow_up TIMESTAMP WITH TIME ZONE;`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS assigned_rep UUID REFERENCES team_members(id) ON DELETE SET NULL;`,

		// Opportunities gained explicit next-action tracking
		`ALTER TABLE pipeline_opportunities ADD COLUMN IF NOT EXISTS next_action TEXT DEFAULT '';`,
		`ALTER TABLE pipeline_opportunities ADD COLUMN IF NOT EXISTS next_action_date TIMESTAMP WITH TIME ZONE;`,
		`ALTER TABLE pipeline_opportunities ADD COLUMN IF NOT EXISTS assigned_rep UUID REFERENCES team_members(id) ON DELETE SET NULL;`,

		// Team member avatars for roster screens
		`ALTER TABLE team_members ADD COLUMN IF NOT EXISTS avatar TEXT;`,

		// Ensure existing users stay active after the role migration
		`UPDATE users SET role = 'user' WHERE role IS NULL OR role = '';`,
		`UPDATE users SET is_active = TRUE WHERE is_active IS NULL;`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			logrus.WithError(err).Warnf("Migration %d failed", i+1)
			// Continue with other migrations even if one fails
		}
	}

	logrus.Info("Migrations completed")
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
