package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dori/brainy/internal/gamify"
)

// LoadSnapshot returns the document stored under key, or nil if there is none
func (db *DB) LoadSnapshot(ctx context.Context, key string) ([]byte, error) {
	var doc string
	err := db.QueryRowContext(ctx, `SELECT document FROM snapshots WHERE key = ?`, key).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	return []byte(doc), nil
}

// SaveSnapshot replaces the document stored under key
func (db *DB) SaveSnapshot(ctx context.Context, key string, doc []byte) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		return upsertSnapshot(ctx, tx, key, doc)
	})
}

// SaveState replaces the document under key and appends awards to the XP
// ledger in the same transaction.
func (db *DB) SaveState(ctx context.Context, key string, doc []byte, awards []gamify.Award) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := upsertSnapshot(ctx, tx, key, doc); err != nil {
			return err
		}
		for _, a := range awards {
			leveled := 0
			if a.LeveledUp {
				leveled = 1
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO xp_ledger (kind, ref_id, xp, xp_after, level_after, leveled_up, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, string(a.Kind), nullable(a.RefID), a.XP, a.XPAfter, a.LevelAfter, leveled, a.At.UTC())
			if err != nil {
				return fmt.Errorf("failed to record award: %w", err)
			}
		}
		return nil
	})
}

// DeleteSnapshot removes the document under key
func (db *DB) DeleteSnapshot(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	return err
}

// XPHistory returns the most recent awards, newest first
func (db *DB) XPHistory(ctx context.Context, limit int) ([]gamify.Award, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT kind, ref_id, xp, xp_after, level_after, leveled_up, created_at
		FROM xp_ledger
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awards []gamify.Award
	for rows.Next() {
		var a gamify.Award
		var kind string
		var refID *string
		var leveled int
		if err := rows.Scan(&kind, &refID, &a.XP, &a.XPAfter, &a.LevelAfter, &leveled, &a.At); err != nil {
			return nil, err
		}
		a.Kind = gamify.Kind(kind)
		if refID != nil {
			a.RefID = *refID
		}
		a.LeveledUp = leveled == 1
		awards = append(awards, a)
	}
	return awards, rows.Err()
}

func upsertSnapshot(ctx context.Context, tx *sql.Tx, key string, doc []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (key, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`, key, string(doc), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
