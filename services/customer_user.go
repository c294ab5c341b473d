package services

import (
	"context"
	"errors"

	"foodorder-telegram/db"

	"github.com/jackc/pgx/v5"
)

// GetCustomerLanguage returns the stored UI language for the customer. Empty string and false if not set
// or when no database is configured.
func GetCustomerLanguage(ctx context.Context, tgUserID int64) (language string, ok bool, err error) {
	if !db.Enabled() {
		return "", false, nil
	}
	err = db.Pool.QueryRow(ctx, `SELECT language FROM customer_users WHERE tg_user_id = $1`, tgUserID).Scan(&language)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return language, true, nil
}

// SetCustomerLanguage sets (or updates) the customer's language.
func SetCustomerLanguage(ctx context.Context, tgUserID int64, language string) error {
	if !db.Enabled() {
		return nil
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO customer_users (tg_user_id, language, language_selected_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tg_user_id) DO UPDATE SET language = EXCLUDED.language, language_selected_at = now()`,
		tgUserID, language,
	)
	return err
}
