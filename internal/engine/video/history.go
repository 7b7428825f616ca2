package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// History: a local SQLite log of processed videos, keyed by video id.
// Reprocessing a video updates its row in place.

// HistoryEntry is one row in the history log.
type HistoryEntry struct {
	ID          int64  `json:"id"`
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	AuthorName  string `json:"author_name,omitempty"`
	Source      string `json:"source"`
	HasSpeakers bool   `json:"has_speakers"`
	CharCount   int    `json:"char_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

var (
	historyDB   *sql.DB
	historyOnce sync.Once
	historyErr  error
)

// openHistoryDB opens (or creates) the SQLite history database.
func openHistoryDB() (*sql.DB, error) {
	historyOnce.Do(func() {
		dir := filepath.Join(os.Getenv("HOME"), ".go_recap")
		if err := os.MkdirAll(dir, 0750); err != nil {
			historyErr = fmt.Errorf("history: mkdir %s: %w", dir, err)
			return
		}
		dbPath := filepath.Join(dir, "history.db")
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			historyErr = fmt.Errorf("history: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initHistorySchema(db); err != nil {
			historyErr = fmt.Errorf("history: init schema: %w", err)
			return
		}
		historyDB = db
	})
	return historyDB, historyErr
}

// initHistorySchema creates the history table if it doesn't exist.
func initHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id     TEXT NOT NULL UNIQUE,
		title        TEXT NOT NULL,
		author_name  TEXT,
		source       TEXT NOT NULL,
		has_speakers INTEGER NOT NULL DEFAULT 0,
		char_count   INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`)
	return err
}

// resetHistoryDB closes the singleton so tests can point HOME elsewhere.
func resetHistoryDB() {
	if historyDB != nil {
		historyDB.Close()
	}
	historyDB = nil
	historyErr = nil
	historyOnce = sync.Once{}
}

// RecordHistory upserts the history row for a video.
func RecordHistory(_ context.Context, videoID string, meta *Metadata, res *TranscriptResult) error {
	db, err := openHistoryDB()
	if err != nil {
		return err
	}
	engine.IncrHistoryWrites()

	var title, author string
	if meta != nil {
		title = meta.Title
		author = meta.AuthorName
	}
	hasSpeakers := 0
	if res.HasSpeakers {
		hasSpeakers = 1
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(
		`INSERT INTO history (video_id, title, author_name, source, has_speakers, char_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(video_id) DO UPDATE SET
		   title = excluded.title,
		   author_name = excluded.author_name,
		   source = excluded.source,
		   has_speakers = excluded.has_speakers,
		   char_count = excluded.char_count,
		   updated_at = excluded.updated_at`,
		videoID, title, author, string(res.Source), hasSpeakers, len(res.Text), now, now,
	)
	if err != nil {
		return fmt.Errorf("history: upsert %s: %w", videoID, err)
	}
	return nil
}

// ListHistory returns the most recently updated entries, newest first.
func ListHistory(_ context.Context, limit int) ([]HistoryEntry, error) {
	db, err := openHistoryDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := db.Query(
		`SELECT id, video_id, title, author_name, source, has_speakers, char_count, created_at, updated_at
		 FROM history ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var author sql.NullString
		var hasSpeakers int
		if err := rows.Scan(&e.ID, &e.VideoID, &e.Title, &author, &e.Source,
			&hasSpeakers, &e.CharCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.AuthorName = author.String
		e.HasSpeakers = hasSpeakers != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetHistory returns the entry for one video id, or nil when absent.
func GetHistory(_ context.Context, videoID string) (*HistoryEntry, error) {
	db, err := openHistoryDB()
	if err != nil {
		return nil, err
	}

	var e HistoryEntry
	var author sql.NullString
	var hasSpeakers int
	err = db.QueryRow(
		`SELECT id, video_id, title, author_name, source, has_speakers, char_count, created_at, updated_at
		 FROM history WHERE video_id = ?`, videoID).
		Scan(&e.ID, &e.VideoID, &e.Title, &author, &e.Source,
			&hasSpeakers, &e.CharCount, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: get %s: %w", videoID, err)
	}
	e.AuthorName = author.String
	e.HasSpeakers = hasSpeakers != 0
	return &e, nil
}
