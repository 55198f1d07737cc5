package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Expenses and settlements may name users that are no longer registered, so
// only expense_shares carries a foreign key. seq preserves insertion order.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    seq INTEGER NOT NULL,
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    seq INTEGER NOT NULL,
    id TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    amount TEXT NOT NULL,
    payer TEXT NOT NULL,
    date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expense_shares (
    expense_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    user_id TEXT NOT NULL,
    amount TEXT,
    PRIMARY KEY (expense_id, position),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settlements (
    seq INTEGER PRIMARY KEY,
    id TEXT NOT NULL,
    from_user TEXT NOT NULL,
    to_user TEXT NOT NULL,
    amount TEXT NOT NULL,
    completed INTEGER NOT NULL,
    date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_seq ON users(seq);
CREATE INDEX IF NOT EXISTS idx_expenses_seq ON expenses(seq);
CREATE INDEX IF NOT EXISTS idx_expense_shares_expense_id ON expense_shares(expense_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
