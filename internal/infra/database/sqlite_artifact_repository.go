package database

import (
	"context"
	"database/sql"
	"fmt"

	"dungeon_schedule_bot/internal/domain/sink"
)

// ErrArtifactNotFound signals that no display artifact handle is stored.
var ErrArtifactNotFound = fmt.Errorf("display artifact handle not found")

// SQLiteArtifactRepository stores the single display artifact handle so a
// restart can re-adopt the message without a history scan.
type SQLiteArtifactRepository struct {
	db *sql.DB
}

func NewSQLiteArtifactRepository(db *sql.DB) *SQLiteArtifactRepository {
	return &SQLiteArtifactRepository{db: db}
}

func (r *SQLiteArtifactRepository) Get(ctx context.Context) (sink.MessageRef, error) {
	var ref sink.MessageRef
	err := r.db.QueryRowContext(ctx,
		`SELECT channel_id, message_id FROM display_artifact WHERE id = 1`).
		Scan(&ref.ChannelID, &ref.MessageID)
	if err != nil {
		if err == sql.ErrNoRows {
			return sink.MessageRef{}, ErrArtifactNotFound
		}
		return sink.MessageRef{}, fmt.Errorf("error reading display artifact handle: %w", err)
	}
	return ref, nil
}

func (r *SQLiteArtifactRepository) Put(ctx context.Context, ref sink.MessageRef) error {
	query := `INSERT INTO display_artifact (id, channel_id, message_id)
	          VALUES (1, ?, ?)
	          ON CONFLICT(id) DO UPDATE SET
	            channel_id = excluded.channel_id,
	            message_id = excluded.message_id`
	if _, err := r.db.ExecContext(ctx, query, ref.ChannelID, ref.MessageID); err != nil {
		return fmt.Errorf("error storing display artifact handle: %w", err)
	}
	return nil
}

func (r *SQLiteArtifactRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM display_artifact WHERE id = 1`); err != nil {
		return fmt.Errorf("error clearing display artifact handle: %w", err)
	}
	return nil
}
