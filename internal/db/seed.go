package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/precificacao/internal/model"
)

// defaultItems is the ingredient list inserted into an empty table.
var defaultItems = []model.Item{
	{Nome: "Abacaxi", QuantidadeBase: 1250, TipoQuantidade: "g", PrecoPorQuantidade: 10.0},
	{Nome: "Achocolatado", QuantidadeBase: 370, TipoQuantidade: "g", PrecoPorQuantidade: 7.8},
	{Nome: "Açúcar cristal", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 3.72},
	{Nome: "Açúcar de confeiteiro", QuantidadeBase: 500, TipoQuantidade: "g", PrecoPorQuantidade: 4.0},
	{Nome: "Açúcar demerara", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 5.0},
	{Nome: "Açúcar refinado", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 4.0},
	{Nome: "Amido de milho", QuantidadeBase: 200, TipoQuantidade: "g", PrecoPorQuantidade: 7.0},
	{Nome: "Bicarbonato de sódio", QuantidadeBase: 500, TipoQuantidade: "g", PrecoPorQuantidade: 10.55},
	{Nome: "Biscoito maisena", QuantidadeBase: 400, TipoQuantidade: "g", PrecoPorQuantidade: 9.0},
	{Nome: "Cacau em pó", QuantidadeBase: 250, TipoQuantidade: "g", PrecoPorQuantidade: 10.0},
	{Nome: "Canela em pó", QuantidadeBase: 50, TipoQuantidade: "g", PrecoPorQuantidade: 5.0},
	{Nome: "Cenoura", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 11.0},
	{Nome: "Chantilly", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 12.0},
	{Nome: "Chocolate ao leite", QuantidadeBase: 380, TipoQuantidade: "g", PrecoPorQuantidade: 13.0},
	{Nome: "Chocolate branco", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 14.0},
	{Nome: "Chocolate em pó", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 26.0},
	{Nome: "Chocolate meio amargo", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 16.0},
	{Nome: "Coco ralado", QuantidadeBase: 100, TipoQuantidade: "g", PrecoPorQuantidade: 17.0},
	{Nome: "Confeitos", QuantidadeBase: 100, TipoQuantidade: "g", PrecoPorQuantidade: 18.0},
	{Nome: "Cravo em pó", QuantidadeBase: 250, TipoQuantidade: "g", PrecoPorQuantidade: 7.29},
	{Nome: "Creme de leite", QuantidadeBase: 200, TipoQuantidade: "g", PrecoPorQuantidade: 19.0},
	{Nome: "Doce de leite", QuantidadeBase: 395, TipoQuantidade: "g", PrecoPorQuantidade: 20.0},
	{Nome: "Doce de leite Itambé", QuantidadeBase: 395, TipoQuantidade: "g", PrecoPorQuantidade: 9.85},
	{Nome: "Essência de baunilha", QuantidadeBase: 30, TipoQuantidade: "ml", PrecoPorQuantidade: 21.0},
	{Nome: "Farinha de trigo", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 4.0},
	{Nome: "Fermento em pó", QuantidadeBase: 100, TipoQuantidade: "g", PrecoPorQuantidade: 2.5},
	{Nome: "Granulado", QuantidadeBase: 50, TipoQuantidade: "g", PrecoPorQuantidade: 24.0},
	{Nome: "Leite", QuantidadeBase: 1000, TipoQuantidade: "ml", PrecoPorQuantidade: 300.0},
	{Nome: "Leite condensado", QuantidadeBase: 395, TipoQuantidade: "g", PrecoPorQuantidade: 4.5},
	{Nome: "Leite de coco", QuantidadeBase: 400, TipoQuantidade: "ml", PrecoPorQuantidade: 27.0},
	{Nome: "Leite em pó", QuantidadeBase: 400, TipoQuantidade: "g", PrecoPorQuantidade: 28.0},
	{Nome: "Limão", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 29.0},
	{Nome: "Mel", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 38.0},
	{Nome: "Manteiga", QuantidadeBase: 200, TipoQuantidade: "g", PrecoPorQuantidade: 7.0},
	{Nome: "Morango", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 32.0},
	{Nome: "Nutella", QuantidadeBase: 400, TipoQuantidade: "g", PrecoPorQuantidade: 33.0},
	{Nome: "Óleo", QuantidadeBase: 900, TipoQuantidade: "ml", PrecoPorQuantidade: 7.0},
	{Nome: "Ovos (em unidades)", QuantidadeBase: 20, TipoQuantidade: "un", PrecoPorQuantidade: 17.9},
	{Nome: "Laranja", QuantidadeBase: 1000, TipoQuantidade: "g", PrecoPorQuantidade: 2.0},
}

// Initialize ensures the schema exists and, when seed is true and the items
// table is empty, inserts defaultItems in one transaction. It returns the
// number of rows seeded. A non-empty table is never seeded again.
func Initialize(ctx context.Context, db *sql.DB, seed bool) (int, error) {
	if err := EnsureSchema(db); err != nil {
		return 0, err
	}
	if !seed {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (nome, categoria, quantidade_base, tipo_quantidade, preco_por_quantidade)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("preparing seed insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range defaultItems {
		if _, err := stmt.ExecContext(ctx, item.Nome, model.CategoryIngredient,
			item.QuantidadeBase, item.TipoQuantidade, item.PrecoPorQuantidade); err != nil {
			return 0, fmt.Errorf("seeding %q: %w", item.Nome, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed: %w", err)
	}
	return len(defaultItems), nil
}
