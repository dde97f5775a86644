// Package postgres implements core.Store on PostgreSQL with pgx.
//
// Entity writes are single statements on the pool so that one failed upsert
// never rolls back another. Recipe replacement is the only multi-statement
// write and runs in its own transaction per parent.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the pgx-backed core.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Store)(nil)

// New wraps an open pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the embedded schema.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Schema returns the embedded DDL.
func Schema() string { return schemaSQL }

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// numeric renders a decimal for a $n::numeric parameter.
func numeric(d decimal.Decimal) string { return d.String() }

func (s *Store) FindSupplierByName(ctx context.Context, tenantID, name string) (core.Supplier, error) {
	const q = `
		SELECT id, tenant_id, name, category, email, phone, address
		FROM suppliers
		WHERE tenant_id = $1 AND name = $2`

	var sup core.Supplier
	err := s.pool.QueryRow(ctx, q, tenantID, name).Scan(
		&sup.ID, &sup.TenantID, &sup.Name, &sup.Category, &sup.Email, &sup.Phone, &sup.Address,
	)
	if err != nil {
		return core.Supplier{}, notFound(err)
	}
	return sup, nil
}

func (s *Store) CreateSupplier(ctx context.Context, sup core.Supplier) (core.Supplier, error) {
	const q = `
		INSERT INTO suppliers (id, tenant_id, name, category, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	sup.ID = uuid.New()
	if _, err := s.pool.Exec(ctx, q,
		sup.ID, sup.TenantID, sup.Name, sup.Category, sup.Email, sup.Phone, sup.Address,
	); err != nil {
		return core.Supplier{}, fmt.Errorf("insert supplier: %w", err)
	}
	return sup, nil
}

func (s *Store) FindSupplyItemBySKU(ctx context.Context, tenantID, sku string) (core.SupplyItem, error) {
	const q = `
		SELECT id, tenant_id, sku, name, category, unit, cost, is_production, supplier_id
		FROM supply_items
		WHERE tenant_id = $1 AND sku = $2`

	var item core.SupplyItem
	err := s.pool.QueryRow(ctx, q, tenantID, sku).Scan(
		&item.ID, &item.TenantID, &item.SKU, &item.Name, &item.Category, &item.Unit,
		&item.Cost, &item.IsProduction, &item.SupplierID,
	)
	if err != nil {
		return core.SupplyItem{}, notFound(err)
	}
	return item, nil
}

func (s *Store) CreateSupplyItem(ctx context.Context, item core.SupplyItem) (core.SupplyItem, error) {
	const q = `
		INSERT INTO supply_items (id, tenant_id, sku, name, category, unit, cost, is_production, supplier_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9)`

	item.ID = uuid.New()
	if _, err := s.pool.Exec(ctx, q,
		item.ID, item.TenantID, item.SKU, item.Name, item.Category, item.Unit,
		numeric(item.Cost), item.IsProduction, item.SupplierID,
	); err != nil {
		return core.SupplyItem{}, fmt.Errorf("insert supply item: %w", err)
	}
	return item, nil
}

// UpdateSupplyItem leaves sku, category and unit untouched.
func (s *Store) UpdateSupplyItem(ctx context.Context, item core.SupplyItem) error {
	const q = `
		UPDATE supply_items
		SET name = $2, cost = $3::numeric, supplier_id = $4, is_production = $5, updated_at = now()
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q, item.ID, item.Name, numeric(item.Cost), item.SupplierID, item.IsProduction)
	if err != nil {
		return fmt.Errorf("update supply item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) FindProductByHandle(ctx context.Context, tenantID, handle string) (core.Product, error) {
	const q = `
		SELECT id, tenant_id, handle, sku, name, price, cost, active
		FROM products
		WHERE tenant_id = $1 AND handle = $2`

	var p core.Product
	err := s.pool.QueryRow(ctx, q, tenantID, handle).Scan(
		&p.ID, &p.TenantID, &p.Handle, &p.SKU, &p.Name, &p.Price, &p.Cost, &p.Active,
	)
	if err != nil {
		return core.Product{}, notFound(err)
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p core.Product) (core.Product, error) {
	const q = `
		INSERT INTO products (id, tenant_id, handle, sku, name, price, cost, active)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8)`

	p.ID = uuid.New()
	if _, err := s.pool.Exec(ctx, q,
		p.ID, p.TenantID, p.Handle, p.SKU, p.Name, numeric(p.Price), numeric(p.Cost), p.Active,
	); err != nil {
		return core.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// UpdateProduct refreshes name, price, sku and cost; active is left alone.
func (s *Store) UpdateProduct(ctx context.Context, p core.Product) error {
	const q = `
		UPDATE products
		SET name = $2, price = $3::numeric, sku = $4, cost = $5::numeric, updated_at = now()
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q, p.ID, p.Name, numeric(p.Price), p.SKU, numeric(p.Cost))
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
