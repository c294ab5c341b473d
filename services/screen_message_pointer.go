package services

import (
	"context"
	"errors"
	"strings"

	"foodorder-telegram/db"

	"github.com/jackc/pgx/v5"
)

// Screens a chat can be looking at.
const (
	ScreenHome         = "home"
	ScreenFoodDetails  = "food_details"
	ScreenOrderHistory = "order_history"
	ScreenLanguage     = "language"
)

// EnsureScreenMessagePointersTable creates screen_message_pointers if missing (safety net when migrate was not run).
func EnsureScreenMessagePointersTable(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS screen_message_pointers (
			chat_id BIGINT PRIMARY KEY,
			screen TEXT NOT NULL,
			message_id INT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

func isRelationNotExist(err error, relation string) bool {
	return err != nil && strings.Contains(err.Error(), relation) && strings.Contains(err.Error(), "does not exist")
}

// GetScreenMessagePointer returns the screen and message_id currently active in chatID.
// ok is false if no pointer exists or no database is configured.
func GetScreenMessagePointer(ctx context.Context, chatID int64) (screen string, messageID int, ok bool, err error) {
	if !db.Enabled() {
		return "", 0, false, nil
	}
	err = db.Pool.QueryRow(ctx, `
		SELECT screen, message_id FROM screen_message_pointers WHERE chat_id = $1`,
		chatID,
	).Scan(&screen, &messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, false, nil
		}
		if isRelationNotExist(err, "screen_message_pointers") {
			if ensureErr := EnsureScreenMessagePointersTable(ctx); ensureErr != nil {
				return "", 0, false, ensureErr
			}
			return "", 0, false, nil
		}
		return "", 0, false, err
	}
	return screen, messageID, true, nil
}

// UpsertScreenMessagePointer records messageID as the active screen message of chatID.
func UpsertScreenMessagePointer(ctx context.Context, chatID int64, screen string, messageID int) error {
	if !db.Enabled() {
		return nil
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO screen_message_pointers (chat_id, screen, message_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (chat_id) DO UPDATE SET screen = EXCLUDED.screen, message_id = EXCLUDED.message_id, updated_at = now()`,
		chatID, screen, messageID,
	)
	if err != nil && isRelationNotExist(err, "screen_message_pointers") {
		if ensureErr := EnsureScreenMessagePointersTable(ctx); ensureErr != nil {
			return ensureErr
		}
		return UpsertScreenMessagePointer(ctx, chatID, screen, messageID)
	}
	return err
}
