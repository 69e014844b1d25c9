package botlog

import (
	"encoding/json"
	"fmt"
)

// TrollEntry is one row of the troll log, as served by the dashboard.
type TrollEntry struct {
	ID         int64          `json:"id"`
	Timestamp  string         `json:"timestamp"`
	Type       string         `json:"troll_type"`
	Name       string         `json:"troll_name"`
	TargetID   string         `json:"target_user_id,omitempty"`
	TargetName string         `json:"target_user_name,omitempty"`
	ChannelID  string         `json:"channel_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// ActivityEntry is one row of the activity log.
type ActivityEntry struct {
	ID          int64          `json:"id"`
	Timestamp   string         `json:"timestamp"`
	Type        string         `json:"event_type"`
	Description string         `json:"description"`
	ChannelID   string         `json:"channel_id,omitempty"`
	UserID      string         `json:"user_id,omitempty"`
	UserName    string         `json:"user_name,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// TrollPage returns one page of the troll log, newest first, optionally
// filtered by type and target. The second return is the total row count
// for the filter.
func (l *Logger) TrollPage(page, limit int, trollType, user string) ([]TrollEntry, int, error) {
	page, limit = clampPage(page, limit)

	where := ""
	var args []any
	if trollType != "" {
		where = " WHERE troll_type = ?"
		args = append(args, trollType)
	}
	if user != "" {
		if where == "" {
			where = " WHERE"
		} else {
			where += " AND"
		}
		where += " (target_user_name LIKE ? OR target_user_id = ?)"
		args = append(args, "%"+user+"%", user)
	}

	var total int
	if err := l.db.QueryRow("SELECT COUNT(*) FROM troll_log"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count troll log: %w", err)
	}

	rows, err := l.db.Query(
		"SELECT id, timestamp, troll_type, troll_name, COALESCE(target_user_id,''), COALESCE(target_user_name,''), COALESCE(channel_id,''), COALESCE(details,'') FROM troll_log"+
			where+" ORDER BY id DESC LIMIT ? OFFSET ?",
		append(args, limit, (page-1)*limit)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query troll log: %w", err)
	}
	defer rows.Close()

	var out []TrollEntry
	for rows.Next() {
		var e TrollEntry
		var details string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Type, &e.Name, &e.TargetID, &e.TargetName, &e.ChannelID, &details); err != nil {
			return nil, 0, err
		}
		if details != "" {
			_ = json.Unmarshal([]byte(details), &e.Details)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// ActivityPage returns one page of the activity log, newest first.
func (l *Logger) ActivityPage(page, limit int, eventType string) ([]ActivityEntry, int, error) {
	page, limit = clampPage(page, limit)

	where := ""
	var args []any
	if eventType != "" {
		where = " WHERE event_type = ?"
		args = append(args, eventType)
	}

	var total int
	if err := l.db.QueryRow("SELECT COUNT(*) FROM activity_log"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity log: %w", err)
	}

	rows, err := l.db.Query(
		"SELECT id, timestamp, event_type, description, COALESCE(channel_id,''), COALESCE(user_id,''), COALESCE(user_name,''), COALESCE(metadata,'') FROM activity_log"+
			where+" ORDER BY id DESC LIMIT ? OFFSET ?",
		append(args, limit, (page-1)*limit)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query activity log: %w", err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var meta string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Type, &e.Description, &e.ChannelID, &e.UserID, &e.UserName, &meta); err != nil {
			return nil, 0, err
		}
		if meta != "" {
			_ = json.Unmarshal([]byte(meta), &e.Metadata)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// TrollTypes returns the distinct troll types seen so far.
func (l *Logger) TrollTypes() ([]string, error) {
	return l.distinct("SELECT DISTINCT troll_type FROM troll_log ORDER BY troll_type")
}

// ActivityTypes returns the distinct activity event types seen so far.
func (l *Logger) ActivityTypes() ([]string, error) {
	return l.distinct("SELECT DISTINCT event_type FROM activity_log ORDER BY event_type")
}

func (l *Logger) distinct(query string) ([]string, error) {
	rows, err := l.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TypeCount aggregates troll firings per type.
type TypeCount struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TargetCount aggregates troll firings per target.
type TargetCount struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
	Count  int64  `json:"count"`
}

// DayCount aggregates troll firings per calendar day.
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// HourCount aggregates activity per hour of day.
type HourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// Summary is the aggregate view behind the dashboard's stats page.
type Summary struct {
	Counters       map[string]int64 `json:"counters"`
	TrollsByType   []TypeCount      `json:"trolls_by_type"`
	TopTargets     []TargetCount    `json:"top_targets"`
	TrollsPerDay   []DayCount       `json:"trolls_per_day"`
	ActivityByHour []HourCount      `json:"activity_by_hour"`
}

// StatsSummary builds the full aggregate view: counters, per-type and
// per-target breakdowns, a 30-day trend, and hour-of-day activity.
func (l *Logger) StatsSummary() (*Summary, error) {
	counters, err := l.Stats()
	if err != nil {
		return nil, err
	}
	s := &Summary{Counters: counters}

	rows, err := l.db.Query("SELECT troll_type, troll_name, COUNT(*) FROM troll_log GROUP BY troll_type, troll_name ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, fmt.Errorf("trolls by type: %w", err)
	}
	for rows.Next() {
		var t TypeCount
		if err := rows.Scan(&t.Type, &t.Name, &t.Count); err != nil {
			rows.Close()
			return nil, err
		}
		s.TrollsByType = append(s.TrollsByType, t)
	}
	rows.Close()

	rows, err = l.db.Query("SELECT COALESCE(target_user_name,''), target_user_id, COUNT(*) FROM troll_log WHERE target_user_id IS NOT NULL GROUP BY target_user_id ORDER BY COUNT(*) DESC LIMIT 10")
	if err != nil {
		return nil, fmt.Errorf("top targets: %w", err)
	}
	for rows.Next() {
		var t TargetCount
		if err := rows.Scan(&t.Name, &t.UserID, &t.Count); err != nil {
			rows.Close()
			return nil, err
		}
		s.TopTargets = append(s.TopTargets, t)
	}
	rows.Close()

	rows, err = l.db.Query("SELECT DATE(timestamp), COUNT(*) FROM troll_log WHERE timestamp >= DATE('now', '-30 days') GROUP BY DATE(timestamp) ORDER BY DATE(timestamp)")
	if err != nil {
		return nil, fmt.Errorf("trolls per day: %w", err)
	}
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			rows.Close()
			return nil, err
		}
		s.TrollsPerDay = append(s.TrollsPerDay, d)
	}
	rows.Close()

	rows, err = l.db.Query("SELECT CAST(strftime('%H', timestamp) AS INTEGER), COUNT(*) FROM activity_log GROUP BY 1 ORDER BY 1")
	if err != nil {
		return nil, fmt.Errorf("activity by hour: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h HourCount
		if err := rows.Scan(&h.Hour, &h.Count); err != nil {
			return nil, err
		}
		s.ActivityByHour = append(s.ActivityByHour, h)
	}
	return s, rows.Err()
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return page, limit
}

// Stats returns all counters.
func (l *Logger) Stats() (map[string]int64, error) {
	rows, err := l.db.Query("SELECT key, value FROM stats")
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var key string
		var value int64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}
