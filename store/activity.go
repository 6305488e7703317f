package store

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const activitySchema = `
CREATE TABLE IF NOT EXISTS activity (
	id          TEXT PRIMARY KEY,
	channel     TEXT NOT NULL,
	payload     TEXT NOT NULL,
	received_at TIMESTAMP NOT NULL
);
`

// ActivityRecord is one push message captured off a live channel, kept so
// recent activity survives the process that received it.
type ActivityRecord struct {
	ID         string
	Channel    string
	Payload    string
	ReceivedAt time.Time
}

// RecordActivity appends a push message to the local activity log.
func (h *Hints) RecordActivity(channel string, payload []byte) error {
	h.mu.Lock()
	id := ulid.MustNew(ulid.Now(), h.entropy).String()
	h.mu.Unlock()

	_, err := h.db.Exec(`
		INSERT INTO activity (id, channel, payload, received_at) VALUES (?, ?, ?, ?)`,
		id, channel, string(payload), time.Now().UTC(),
	)
	return err
}

// RecentActivity returns up to limit records, newest first. Monotonic ULIDs
// sort lexicographically by creation order, so ordering by id is ordering
// by time.
func (h *Hints) RecentActivity(limit int) ([]ActivityRecord, error) {
	rows, err := h.db.Query(`
		SELECT id, channel, payload, received_at FROM activity
		ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActivityRecord
	for rows.Next() {
		var rec ActivityRecord
		if err := rows.Scan(&rec.ID, &rec.Channel, &rec.Payload, &rec.ReceivedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
