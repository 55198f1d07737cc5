package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/models"
)

func insertSettlements(ctx context.Context, tx *sql.Tx, settlements []models.Settlement) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO settlements (seq, id, from_user, to_user, amount, completed, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare settlement insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range settlements {
		_, err := stmt.ExecContext(ctx,
			i, s.ID, s.From, s.To, s.Amount.String(), s.Completed, s.Date.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement %s: %w", s.ID, err)
		}
	}
	return nil
}

func loadSettlements(ctx context.Context, tx *sql.Tx) ([]models.Settlement, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, from_user, to_user, amount, completed, date FROM settlements ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	settlements := []models.Settlement{}
	for rows.Next() {
		var (
			s            models.Settlement
			amount, date string
		)
		if err := rows.Scan(&s.ID, &s.From, &s.To, &amount, &s.Completed, &date); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if s.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount for settlement %s: %w", s.ID, err)
		}
		if date != "" {
			if s.Date, err = models.ParseDate(date); err != nil {
				return nil, fmt.Errorf("invalid date for settlement %s: %w", s.ID, err)
			}
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}
