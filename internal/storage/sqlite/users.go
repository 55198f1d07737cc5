package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/spliteasy/internal/models"
)

func insertUsers(ctx context.Context, tx *sql.Tx, users []models.User) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO users (seq, id, name, color) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare user insert: %w", err)
	}
	defer stmt.Close()

	for i, u := range users {
		if _, err := stmt.ExecContext(ctx, i, u.ID, u.Name, u.Color); err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
		}
	}
	return nil
}

func loadUsers(ctx context.Context, tx *sql.Tx) ([]models.User, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, color FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Color); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
