package services

import (
	"context"
	"encoding/json"
	"fmt"

	"foodorder-telegram/db"
	"foodorder-telegram/models"

	"github.com/shopspring/decimal"
)

// RecordSubmission stores a pending order submission and returns its ledger id.
// Without a database it returns 0 and nothing is stored.
func RecordSubmission(ctx context.Context, chatID int64, payload models.OrderPayload, total decimal.Decimal) (int64, error) {
	if !db.Enabled() {
		return 0, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}
	var id int64
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO order_submissions (chat_id, product_id, food_quantity, total, payload, status)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		RETURNING id`,
		chatID, payload.ProductID, payload.FoodQuantity, total.String(), string(body), models.SubmissionPending,
	).Scan(&id)
	return id, err
}

// FinishSubmission marks a ledger row sent or failed depending on submitErr.
func FinishSubmission(ctx context.Context, id int64, submitErr error) error {
	if !db.Enabled() || id == 0 {
		return nil
	}
	status, errText := models.SubmissionSent, ""
	if submitErr != nil {
		status, errText = models.SubmissionFailed, submitErr.Error()
	}
	_, err := db.Pool.Exec(ctx, `
		UPDATE order_submissions SET status = $1, error = NULLIF($2, ''), finished_at = now()
		WHERE id = $3`,
		status, errText, id,
	)
	return err
}

// ListFailedSubmissions returns the most recent failed submissions of a chat.
func ListFailedSubmissions(ctx context.Context, chatID int64, limit int) ([]models.Submission, error) {
	if !db.Enabled() {
		return nil, nil
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT id, chat_id, product_id, food_quantity, total::text, status, COALESCE(error, ''), created_at
		FROM order_submissions
		WHERE chat_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3`,
		chatID, models.SubmissionFailed, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Submission
	for rows.Next() {
		var s models.Submission
		var total string
		if err := rows.Scan(&s.ID, &s.ChatID, &s.ProductID, &s.FoodQuantity, &total, &s.Status, &s.Error, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Total, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
