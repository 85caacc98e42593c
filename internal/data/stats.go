package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joinwarden/joinwarden/internal/biz/domain"
	"github.com/joinwarden/joinwarden/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// statsRepo implements the stats persistence repository
type statsRepo struct {
	db *sql.DB
}

// NewStatsRepo creates a new stats repository backed by SQLite
func NewStatsRepo(dbPath string) (repo.StatsRepo, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create tables
	tables := []string{
		`CREATE TABLE IF NOT EXISTS chat_stats (
			chat_id INTEGER PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			hourly_requests INTEGER NOT NULL DEFAULT 0,
			hourly_left INTEGER NOT NULL DEFAULT 0,
			period_requests INTEGER NOT NULL DEFAULT 0,
			period_left INTEGER NOT NULL DEFAULT 0,
			total_requests INTEGER NOT NULL DEFAULT 0,
			total_approved INTEGER NOT NULL DEFAULT 0,
			total_left INTEGER NOT NULL DEFAULT 0,
			last_activity INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS global_stats (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			hourly_requests INTEGER NOT NULL DEFAULT 0,
			hourly_left INTEGER NOT NULL DEFAULT 0,
			period_requests INTEGER NOT NULL DEFAULT 0,
			period_left INTEGER NOT NULL DEFAULT 0,
			total_requests INTEGER NOT NULL DEFAULT 0,
			total_approved INTEGER NOT NULL DEFAULT 0,
			total_left INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS tracked_chats (
			chat_id INTEGER PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
	}
	for _, ddl := range tables {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &statsRepo{db: db}, nil
}

// Load reads the persisted snapshot. Missing or unreadable parts are replaced
// by empty defaults so a damaged database never blocks startup.
func (r *statsRepo) Load(ctx context.Context) (*domain.StoreSnapshot, error) {
	snap := &domain.StoreSnapshot{Chats: make(map[int64]domain.ChatStats)}

	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, title,
			hourly_requests, hourly_left,
			period_requests, period_left,
			total_requests, total_approved, total_left,
			last_activity
		FROM chat_stats
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cs domain.ChatStats
		var lastActivity int64
		err := rows.Scan(&cs.ChatID, &cs.Title,
			&cs.Hourly.Requests, &cs.Hourly.Left,
			&cs.Period.Requests, &cs.Period.Left,
			&cs.Lifetime.Requests, &cs.Lifetime.Approved, &cs.Lifetime.Left,
			&lastActivity)
		if err != nil {
			fmt.Printf("[Stats] Skipping unreadable chat stats row: %v\n", err)
			continue
		}
		if lastActivity > 0 {
			cs.LastActivity = time.Unix(lastActivity, 0)
		}
		snap.Chats[cs.ChatID] = cs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat stats: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT hourly_requests, hourly_left,
			period_requests, period_left,
			total_requests, total_approved, total_left
		FROM global_stats WHERE id = 1
	`)
	err = row.Scan(&snap.Global.Hourly.Requests, &snap.Global.Hourly.Left,
		&snap.Global.Period.Requests, &snap.Global.Period.Left,
		&snap.Global.Lifetime.Requests, &snap.Global.Lifetime.Approved, &snap.Global.Lifetime.Left)
	if err != nil && err != sql.ErrNoRows {
		fmt.Printf("[Stats] Global stats unreadable, starting empty: %v\n", err)
		snap.Global = domain.GlobalStats{}
	}

	trackedRows, err := r.db.QueryContext(ctx, `SELECT chat_id FROM tracked_chats`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked chats: %w", err)
	}
	defer trackedRows.Close()
	for trackedRows.Next() {
		var id int64
		if err := trackedRows.Scan(&id); err != nil {
			continue
		}
		snap.Tracked = append(snap.Tracked, id)
	}
	if err := trackedRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracked chats: %w", err)
	}

	var lastSaved int64
	if err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'last_saved'`).Scan(&lastSaved); err == nil && lastSaved > 0 {
		snap.LastSaved = time.Unix(lastSaved, 0)
	}

	return snap, nil
}

// Save persists the snapshot in a single transaction, replacing the previous one
func (r *statsRepo) Save(ctx context.Context, snap *domain.StoreSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_stats`); err != nil {
		return fmt.Errorf("failed to clear chat stats: %w", err)
	}
	for _, cs := range snap.Chats {
		var lastActivity int64
		if !cs.LastActivity.IsZero() {
			lastActivity = cs.LastActivity.Unix()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chat_stats (chat_id, title,
				hourly_requests, hourly_left,
				period_requests, period_left,
				total_requests, total_approved, total_left,
				last_activity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, cs.ChatID, cs.Title,
			cs.Hourly.Requests, cs.Hourly.Left,
			cs.Period.Requests, cs.Period.Left,
			cs.Lifetime.Requests, cs.Lifetime.Approved, cs.Lifetime.Left,
			lastActivity)
		if err != nil {
			return fmt.Errorf("failed to save chat %d: %w", cs.ChatID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO global_stats (id,
			hourly_requests, hourly_left,
			period_requests, period_left,
			total_requests, total_approved, total_left)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
	`, snap.Global.Hourly.Requests, snap.Global.Hourly.Left,
		snap.Global.Period.Requests, snap.Global.Period.Left,
		snap.Global.Lifetime.Requests, snap.Global.Lifetime.Approved, snap.Global.Lifetime.Left)
	if err != nil {
		return fmt.Errorf("failed to save global stats: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tracked_chats`); err != nil {
		return fmt.Errorf("failed to clear tracked chats: %w", err)
	}
	for _, id := range snap.Tracked {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tracked_chats (chat_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("failed to save tracked chat %d: %w", id, err)
		}
	}

	lastSaved := snap.LastSaved
	if lastSaved.IsZero() {
		lastSaved = time.Now()
	}
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES ('last_saved', ?)`, lastSaved.Unix())
	if err != nil {
		return fmt.Errorf("failed to save meta: %w", err)
	}

	return tx.Commit()
}

// Close closes the database
func (r *statsRepo) Close() error {
	return r.db.Close()
}
