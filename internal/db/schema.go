package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. AUTOINCREMENT keeps ids from being
// reused after a delete.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    nome                 TEXT NOT NULL,
    categoria            TEXT NOT NULL CHECK (categoria IN ('ingredient', 'labor', 'other_cost')),
    quantidade_base      REAL NOT NULL CHECK (quantidade_base > 0),
    tipo_quantidade      TEXT NOT NULL,
    preco_por_quantidade REAL NOT NULL CHECK (preco_por_quantidade >= 0)
);
`

// EnsureSchema creates all tables if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
