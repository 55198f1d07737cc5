package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/models"
)

func insertExpenses(ctx context.Context, tx *sql.Tx, expenses []models.Expense) error {
	for i, e := range expenses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (seq, id, description, amount, payer, date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			i, e.ID, e.Description, e.Amount.String(), e.Payer, e.Date.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense %s: %w", e.ID, err)
		}

		for pos, share := range e.Participants {
			// NULL marks an equal share.
			var amount any
			if share.IsCustom() {
				amount = share.Amount.Decimal.String()
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO expense_shares (expense_id, position, user_id, amount) VALUES (?, ?, ?, ?)`,
				e.ID, pos, share.UserID, amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert share for expense %s: %w", e.ID, err)
			}
		}
	}
	return nil
}

func loadExpenses(ctx context.Context, tx *sql.Tx) ([]models.Expense, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, description, amount, payer, date FROM expenses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			e            models.Expense
			amount, date string
		)
		if err := rows.Scan(&e.ID, &e.Description, &amount, &e.Payer, &date); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount for expense %s: %w", e.ID, err)
		}
		if date != "" {
			if e.Date, err = models.ParseDate(date); err != nil {
				return nil, fmt.Errorf("invalid date for expense %s: %w", e.ID, err)
			}
		}
		e.Participants = []models.Share{}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	shareRows, err := tx.QueryContext(ctx,
		`SELECT expense_id, user_id, amount FROM expense_shares ORDER BY expense_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var (
			expenseID, userID string
			amount            sql.NullString
		)
		if err := shareRows.Scan(&expenseID, &userID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}

		share := models.EqualShare(userID)
		if amount.Valid {
			d, err := decimal.NewFromString(amount.String)
			if err != nil {
				return nil, fmt.Errorf("invalid share amount for expense %s: %w", expenseID, err)
			}
			share = models.CustomShare(userID, d)
		}

		i, ok := index[expenseID]
		if !ok {
			continue
		}
		expenses[i].Participants = append(expenses[i].Participants, share)
	}
	return expenses, shareRows.Err()
}
