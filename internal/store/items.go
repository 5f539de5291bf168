package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/precificacao/internal/model"
)

// ListItems returns all items ordered by name (SQLite BINARY collation),
// ties broken by id.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, nome, categoria, quantidade_base, tipo_quantidade, preco_por_quantidade
		 FROM items ORDER BY nome ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Nome, &item.Categoria, &item.QuantidadeBase,
			&item.TipoQuantidade, &item.PrecoPorQuantidade); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateItem inserts item and returns its new id. item.ID is ignored.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (int64, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (nome, categoria, quantidade_base, tipo_quantidade, preco_por_quantidade)
		 VALUES (?, ?, ?, ?, ?)`,
		item.Nome, item.Categoria, item.QuantidadeBase, item.TipoQuantidade, item.PrecoPorQuantidade,
	)
	if err != nil {
		return 0, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting item id: %w", err)
	}
	return id, nil
}

// UpdateItem replaces every field of the item with the given id.
// It returns false when no such item exists.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, item model.Item) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items
		 SET nome = ?, categoria = ?, quantidade_base = ?, tipo_quantidade = ?, preco_por_quantidade = ?
		 WHERE id = ?`,
		item.Nome, item.Categoria, item.QuantidadeBase, item.TipoQuantidade, item.PrecoPorQuantidade, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	return affected(result)
}

// DeleteItem removes the item with the given id.
// It returns false when no such item exists.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return affected(result)
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return n > 0, nil
}
