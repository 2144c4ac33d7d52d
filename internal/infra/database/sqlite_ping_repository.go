package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dungeon_schedule_bot/internal/domain/ping"
)

// SQLitePingRepository persists pending notification messages so a restart
// can still delete messages a previous process sent.
type SQLitePingRepository struct {
	db *sql.DB
}

func NewSQLitePingRepository(db *sql.DB) *SQLitePingRepository {
	return &SQLitePingRepository{db: db}
}

func (r *SQLitePingRepository) Upsert(ctx context.Context, p *ping.Pending) error {
	query := `INSERT INTO pending_pings (event_name, channel_id, message_id, delete_after)
	          VALUES (?, ?, ?, ?)
	          ON CONFLICT(event_name) DO UPDATE SET
	            channel_id = excluded.channel_id,
	            message_id = excluded.message_id,
	            delete_after = excluded.delete_after`
	_, err := r.db.ExecContext(ctx, query,
		p.EventName, p.Message.ChannelID, p.Message.MessageID, p.DeleteAfter.UTC().Unix())
	if err != nil {
		return fmt.Errorf("error upserting pending ping for %q: %w", p.EventName, err)
	}
	return nil
}

func (r *SQLitePingRepository) Delete(ctx context.Context, eventName string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_pings WHERE event_name = ?`, eventName)
	if err != nil {
		return fmt.Errorf("error deleting pending ping for %q: %w", eventName, err)
	}
	return nil
}

func (r *SQLitePingRepository) List(ctx context.Context) ([]*ping.Pending, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT event_name, channel_id, message_id, delete_after FROM pending_pings`)
	if err != nil {
		return nil, fmt.Errorf("error listing pending pings: %w", err)
	}
	defer rows.Close()

	var out []*ping.Pending
	for rows.Next() {
		var p ping.Pending
		var deleteAfter int64
		if err := rows.Scan(&p.EventName, &p.Message.ChannelID, &p.Message.MessageID, &deleteAfter); err != nil {
			return nil, fmt.Errorf("error scanning pending ping: %w", err)
		}
		p.DeleteAfter = time.Unix(deleteAfter, 0).UTC()
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending pings: %w", err)
	}
	return out, nil
}

var _ ping.Repository = (*SQLitePingRepository)(nil)
