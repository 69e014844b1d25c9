// Package botlog records troll events, activity events, and stat counters in
// sqlite. It is observability only: the decision path never reads it back,
// and every write failure is logged and swallowed.
package botlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS troll_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    troll_type TEXT NOT NULL,
    troll_name TEXT NOT NULL,
    target_user_id TEXT,
    target_user_name TEXT,
    channel_id TEXT,
    details TEXT
);

CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    event_type TEXT NOT NULL,
    description TEXT NOT NULL,
    channel_id TEXT,
    user_id TEXT,
    user_name TEXT,
    metadata TEXT
);

CREATE TABLE IF NOT EXISTS stats (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL
);
`

var defaultStats = []string{
	"messages_processed",
	"trolls_triggered",
	"trolls_bg_triggered",
	"greetings_sent",
	"dead_chat_revives",
	"gn_callouts",
	"hype_detections",
	"welcomes_sent",
	"nick_reverts",
	"game_detections",
	"typing_callouts",
	"reaction_chains",
	"rage_detections",
	"excuse_generations",
	"cap_alarms",
	"flex_polices",
	"lag_defenses",
	"essay_detections",
	"k_energy_fires",
	"late_night_bonuses",
	"modmail_received",
	"modmail_replied",
	"per_message_trolls",
}

const msgFlushThreshold = 100

// Logger is the event-log/stats sink.
type Logger struct {
	db  *sql.DB
	log zerolog.Logger

	mu         sync.Mutex
	msgCounter int
}

func Open(path string, log zerolog.Logger) (*Logger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open log db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	now := "1970-01-01T00:00:00Z"
	for _, key := range defaultStats {
		if _, err := db.Exec("INSERT OR IGNORE INTO stats (key, value, updated_at) VALUES (?, 0, ?)", key, now); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed stat %s: %w", key, err)
		}
	}

	return &Logger{db: db, log: log.With().Str("component", "botlog").Logger()}, nil
}

// Close flushes the batched message counter and closes the database.
func (l *Logger) Close() error {
	l.Flush()
	return l.db.Close()
}

// LogTroll records a fired troll and bumps the global counter. Fire and
// forget: failures are logged, never returned.
func (l *Logger) LogTroll(kind, name, targetID, targetName, channelID string, details map[string]any) {
	var detailsJSON any
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = string(b)
		}
	}
	_, err := l.db.Exec(
		"INSERT INTO troll_log (timestamp, troll_type, troll_name, target_user_id, target_user_name, channel_id, details) VALUES (?, ?, ?, ?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), kind, name, nullable(targetID), nullable(targetName), nullable(channelID), detailsJSON,
	)
	if err != nil {
		l.log.Warn().Err(err).Str("troll", kind).Msg("troll log write failed")
		return
	}
	l.IncrementStat("trolls_triggered", 1)
}

// LogActivity records a general activity event.
func (l *Logger) LogActivity(kind, description, channelID, userID, userName string, meta map[string]any) {
	var metaJSON any
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metaJSON = string(b)
		}
	}
	_, err := l.db.Exec(
		"INSERT INTO activity_log (timestamp, event_type, description, channel_id, user_id, user_name, metadata) VALUES (?, ?, ?, ?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), kind, description, nullable(channelID), nullable(userID), nullable(userName), metaJSON,
	)
	if err != nil {
		l.log.Warn().Err(err).Str("event", kind).Msg("activity log write failed")
	}
}

// IncrementStat atomically bumps a named counter.
func (l *Logger) IncrementStat(key string, amount int) {
	_, err := l.db.Exec(
		"INSERT INTO stats (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = value + excluded.value, updated_at = excluded.updated_at",
		key, amount, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		l.log.Warn().Err(err).Str("stat", key).Msg("stat increment failed")
	}
}

// CountMessage bumps the batched message counter, flushing every N messages
// to bound write volume.
func (l *Logger) CountMessage() {
	l.mu.Lock()
	l.msgCounter++
	flush := l.msgCounter >= msgFlushThreshold
	var count int
	if flush {
		count = l.msgCounter
		l.msgCounter = 0
	}
	l.mu.Unlock()

	if flush {
		l.IncrementStat("messages_processed", count)
	}
}

// Flush writes any pending batched message count. Call on shutdown.
func (l *Logger) Flush() {
	l.mu.Lock()
	count := l.msgCounter
	l.msgCounter = 0
	l.mu.Unlock()

	if count > 0 {
		l.IncrementStat("messages_processed", count)
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
