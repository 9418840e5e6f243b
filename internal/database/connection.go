package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// driver: "sqlite" (default) stores under data/, "postgres" connects with
// DATABASE_URL.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "sqlite":
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath := filepath.Join(dataDir, "vocabtrainer.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE: %q", dbType)
	}

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS word_sets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			archived BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create word_sets table: %v", err)
	}

	// next_review holds the zero time for words never scheduled; a zero
	// timestamp sorts before and compares below any real review date, so
	// the due query needs no NULL handling.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			set_id TEXT NOT NULL,
			term TEXT NOT NULL,
			definition TEXT NOT NULL,
			phonetic TEXT NOT NULL DEFAULT '',
			word_type TEXT NOT NULL DEFAULT '',
			example TEXT NOT NULL DEFAULT '',
			synonym TEXT NOT NULL DEFAULT '',
			antonym TEXT NOT NULL DEFAULT '',
			collocation TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			level TEXT NOT NULL DEFAULT '',
			topic TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			review_count INTEGER NOT NULL DEFAULT 0,
			correct_count INTEGER NOT NULL DEFAULT 0,
			mastery_level INTEGER NOT NULL DEFAULT 0,
			learning_status TEXT NOT NULL DEFAULT 'not_learned',
			srs_stage TEXT NOT NULL DEFAULT 'new',
			next_review TIMESTAMP NOT NULL DEFAULT '0001-01-01 00:00:00',
			starred BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (set_id) REFERENCES word_sets(id),
			UNIQUE(term, set_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create words table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS session_results (
			id TEXT PRIMARY KEY,
			set_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			total_asked INTEGER NOT NULL DEFAULT 0,
			total_correct INTEGER NOT NULL DEFAULT 0,
			total_typos INTEGER NOT NULL DEFAULT 0,
			mastered INTEGER NOT NULL DEFAULT 0,
			duration INTEGER NOT NULL DEFAULT 0,
			finished_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (set_id) REFERENCES word_sets(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create session_results table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS study_prefs (
			chat_id BIGINT PRIMARY KEY,
			active_set_id TEXT NOT NULL DEFAULT '',
			batch_size INTEGER NOT NULL DEFAULT 10,
			limit_type TEXT NOT NULL DEFAULT 'mastery',
			reminder_enabled BOOLEAN NOT NULL DEFAULT true,
			reminder_hour INTEGER NOT NULL DEFAULT 9,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create study_prefs table: %v", err)
	}

	return nil
}
