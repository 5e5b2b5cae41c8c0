// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mercator/internal/recommend"
)

const productColumns = `id, name, category, brand, price, discount, stock, rating, tags, status`

// InsertProducts inserts or replaces catalog entries by id.
func (db *DB) InsertProducts(ctx context.Context, products []recommend.Product) error {
	if len(products) == 0 {
		return nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert products: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert products: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i := range products {
		p := &products[i]
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("encode tags for %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, string(p.ID), p.Name, p.Category, p.Brand,
			p.Price, p.Discount, p.Stock, p.Rating, string(tagsJSON), string(p.Status)); err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert products: %w", err)
	}
	return nil
}

// FindProducts returns products matching filter. A non-nil empty IDs slice
// matches nothing.
func (db *DB) FindProducts(ctx context.Context, filter recommend.ProductFilter) ([]recommend.Product, error) {
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return []recommend.Product{}, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	order := "ORDER BY id ASC"
	if filter.Sort == recommend.SortDiscountDesc {
		order = "ORDER BY discount DESC, id ASC"
	}
	query, args := productQuery(`SELECT `+productColumns+` FROM products`, filter).
		build(order + " " + limitClause(filter.Limit))

	products, err := queryAndScan(ctx, db.conn, query, args, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

// CountProducts counts products matching filter. Limit is ignored.
func (db *DB) CountProducts(ctx context.Context, filter recommend.ProductFilter) (int64, error) {
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return 0, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query, args := productQuery(`SELECT COUNT(*) FROM products`, filter).build("")
	var n int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func productQuery(base string, filter recommend.ProductFilter) *queryBuilder {
	qb := newQueryBuilder(base)
	addInFilter(qb, "id", filter.IDs)
	addNotInFilter(qb, "id", filter.ExcludeIDs)
	addInFilter(qb, "category", filter.Categories)
	if filter.Status != "" {
		qb.addFilter("status = ?", string(filter.Status))
	}
	return qb
}

func scanProduct(rows *sql.Rows) (recommend.Product, error) {
	var (
		p        recommend.Product
		id       string
		tagsJSON string
		status   string
	)
	if err := rows.Scan(&id, &p.Name, &p.Category, &p.Brand, &p.Price, &p.Discount,
		&p.Stock, &p.Rating, &tagsJSON, &status); err != nil {
		return p, fmt.Errorf("scan product: %w", err)
	}
	p.ID = recommend.ProductID(id)
	p.Status = recommend.ProductStatus(status)
	if tagsJSON != "" && tagsJSON != "[]" {
		if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
			return p, fmt.Errorf("decode tags for %s: %w", id, err)
		}
	}
	return p, nil
}
