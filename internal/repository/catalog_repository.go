// internal/repository/catalog_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-service/internal/database"
	"pos-service/internal/model"
)

// catalogRepository implements CatalogRepository interface
type catalogRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *database.DB, logger *zap.Logger) CatalogRepository {
	return &catalogRepository{
		db:     db,
		logger: logger,
	}
}

// Items

// CreateItem creates a new item
func (r *catalogRepository) CreateItem(ctx context.Context, item *model.Item) error {
	query := `
		INSERT INTO items (id, name, category_id, default_unit, price, default_tax, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.CategoryID, item.DefaultUnit,
		item.Price, item.DefaultTax, item.IsActive,
	)
	if err != nil {
		r.logger.Error("Failed to create item", zap.Error(err), zap.String("name", item.Name))
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetItem retrieves an item by its UUID
func (r *catalogRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	query := `
		SELECT id, name, category_id, default_unit, price, default_tax, is_active, created_at, updated_at
		FROM items WHERE id = $1
	`

	item := &model.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.CategoryID, &item.DefaultUnit,
		&item.Price, &item.DefaultTax, &item.IsActive, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item not found with id: %s", id)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListItems retrieves items, optionally only active ones
func (r *catalogRepository) ListItems(ctx context.Context, activeOnly bool) ([]*model.Item, error) {
	query := `
		SELECT id, name, category_id, default_unit, price, default_tax, is_active, created_at, updated_at
		FROM items
	`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*model.Item
	for rows.Next() {
		item := &model.Item{}
		err := rows.Scan(
			&item.ID, &item.Name, &item.CategoryID, &item.DefaultUnit,
			&item.Price, &item.DefaultTax, &item.IsActive, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateItem updates an item
func (r *catalogRepository) UpdateItem(ctx context.Context, item *model.Item) error {
	query := `
		UPDATE items
		SET name = $2, category_id = $3, default_unit = $4, price = $5,
			default_tax = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.CategoryID, item.DefaultUnit,
		item.Price, item.DefaultTax, item.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	return requireAffected(result, "item", item.ID)
}

// DeleteItem removes an item
func (r *catalogRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return requireAffected(result, "item", id)
}

// Categories

// CreateCategory creates a new category
func (r *catalogRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (id, name, description, is_active)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.Description, category.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// ListCategories retrieves all categories
func (r *catalogRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM categories ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		category := &model.Category{}
		err := rows.Scan(
			&category.ID, &category.Name, &category.Description,
			&category.IsActive, &category.CreatedAt, &category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// UpdateCategory updates a category
func (r *catalogRepository) UpdateCategory(ctx context.Context, category *model.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.Description, category.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireAffected(result, "category", category.ID)
}

// DeleteCategory removes a category
func (r *catalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireAffected(result, "category", id)
}

// Units

// CreateUnit creates a new unit
func (r *catalogRepository) CreateUnit(ctx context.Context, unit *model.Unit) error {
	query := `
		INSERT INTO units (id, name, symbol, is_active)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, unit.ID, unit.Name, unit.Symbol, unit.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}

	return nil
}

// ListUnits retrieves all units
func (r *catalogRepository) ListUnits(ctx context.Context) ([]*model.Unit, error) {
	query := `SELECT id, name, symbol, is_active FROM units ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []*model.Unit
	for rows.Next() {
		unit := &model.Unit{}
		if err := rows.Scan(&unit.ID, &unit.Name, &unit.Symbol, &unit.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, unit)
	}

	return units, rows.Err()
}

// DeleteUnit removes a unit
func (r *catalogRepository) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	return requireAffected(result, "unit", id)
}

// Conversion rules

const conversionRuleColumns = `id, name, from_unit, to_unit, operation, factor, decimals, is_active`

// CreateConversionRule creates a new conversion rule
func (r *catalogRepository) CreateConversionRule(ctx context.Context, rule *model.ConversionRule) error {
	query := `
		INSERT INTO conversion_rules (id, name, from_unit, to_unit, operation, factor, decimals, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.FromUnit, rule.ToUnit,
		rule.Operation, rule.Factor, rule.Decimals, rule.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversion rule: %w", err)
	}

	return nil
}

// GetConversionRule retrieves a conversion rule by its UUID
func (r *catalogRepository) GetConversionRule(ctx context.Context, id uuid.UUID) (*model.ConversionRule, error) {
	query := `SELECT ` + conversionRuleColumns + ` FROM conversion_rules WHERE id = $1`
	return r.scanConversionRule(r.db.QueryRowContext(ctx, query, id), id.String())
}

// GetConversionRuleByName retrieves a conversion rule by name
func (r *catalogRepository) GetConversionRuleByName(ctx context.Context, name string) (*model.ConversionRule, error) {
	query := `SELECT ` + conversionRuleColumns + ` FROM conversion_rules WHERE name = $1`
	return r.scanConversionRule(r.db.QueryRowContext(ctx, query, name), name)
}

func (r *catalogRepository) scanConversionRule(row *sql.Row, key string) (*model.ConversionRule, error) {
	rule := &model.ConversionRule{}
	err := row.Scan(
		&rule.ID, &rule.Name, &rule.FromUnit, &rule.ToUnit,
		&rule.Operation, &rule.Factor, &rule.Decimals, &rule.IsActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("conversion rule not found: %s", key)
		}
		return nil, fmt.Errorf("failed to get conversion rule: %w", err)
	}
	return rule, nil
}

// ListConversionRules retrieves conversion rules, optionally only
// active ones.
func (r *catalogRepository) ListConversionRules(ctx context.Context, activeOnly bool) ([]*model.ConversionRule, error) {
	query := `SELECT ` + conversionRuleColumns + ` FROM conversion_rules`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversion rules: %w", err)
	}
	defer rows.Close()

	var rules []*model.ConversionRule
	for rows.Next() {
		rule := &model.ConversionRule{}
		err := rows.Scan(
			&rule.ID, &rule.Name, &rule.FromUnit, &rule.ToUnit,
			&rule.Operation, &rule.Factor, &rule.Decimals, &rule.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversion rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// UpdateConversionRule updates a conversion rule
func (r *catalogRepository) UpdateConversionRule(ctx context.Context, rule *model.ConversionRule) error {
	query := `
		UPDATE conversion_rules
		SET name = $2, from_unit = $3, to_unit = $4, operation = $5,
			factor = $6, decimals = $7, is_active = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.FromUnit, rule.ToUnit,
		rule.Operation, rule.Factor, rule.Decimals, rule.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversion rule: %w", err)
	}
	return requireAffected(result, "conversion rule", rule.ID)
}

// DeleteConversionRule removes a conversion rule
func (r *catalogRepository) DeleteConversionRule(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM conversion_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversion rule: %w", err)
	}
	return requireAffected(result, "conversion rule", id)
}

// requireAffected turns a zero-row result into a not-found error
func requireAffected(result sql.Result, entity string, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s not found with id: %s", entity, id)
	}
	return nil
}
