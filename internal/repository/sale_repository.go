// internal/repository/sale_repository.go
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

// saleRepository implements SaleRepository interface
type saleRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *database.DB, logger *zap.Logger) SaleRepository {
	return &saleRepository{
		db:     db,
		logger: logger,
	}
}

const saleColumns = `
	id, customer_id, doc_type, document_number, issued_at,
	subtotal, tax, discount, total, status, notes,
	receipt_print_count, delivery_print_count, created_at, updated_at
`

// Create inserts the sale, its items and the optional delivery record
// in one transaction.
func (r *saleRepository) Create(ctx context.Context, sale *model.Sale, items []model.SaleItem, delivery *model.DeliveryInfo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	saleQuery := `
		INSERT INTO sales (
			id, customer_id, doc_type, document_number, issued_at,
			subtotal, tax, discount, total, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, saleQuery,
		sale.ID, sale.CustomerID, sale.DocType, sale.DocumentNumber, sale.IssuedAt,
		sale.Subtotal, sale.Tax, sale.Discount, sale.Total, sale.Status, sale.Notes,
	)
	if err != nil {
		r.logger.Error("Failed to create sale", zap.Error(err), zap.String("document_number", sale.DocumentNumber))
		return fmt.Errorf("failed to create sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (
			id, sale_id, product_name, quantity, unit, unit_price, total,
			conversion_rule_name, converted_quantity, converted_unit
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for i := range items {
		item := &items[i]
		_, err = tx.ExecContext(ctx, itemQuery,
			item.ID, sale.ID, item.ProductName, item.Quantity, item.Unit,
			item.UnitPrice, item.Total, item.ConversionRuleName,
			item.ConvertedQuantity, item.ConvertedUnit,
		)
		if err != nil {
			return fmt.Errorf("failed to create sale item: %w", err)
		}
	}

	if delivery != nil {
		deliveryQuery := `
			INSERT INTO delivery_info (
				id, sale_id, driver_name, truck_plate,
				empty_weight, full_weight, delivery_address
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err = tx.ExecContext(ctx, deliveryQuery,
			delivery.ID, sale.ID, delivery.DriverName, delivery.TruckPlate,
			delivery.EmptyWeight, delivery.FullWeight, delivery.DeliveryAddress,
		)
		if err != nil {
			return fmt.Errorf("failed to create delivery info: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale: %w", err)
	}

	r.logger.Info("Sale created",
		zap.String("document_number", sale.DocumentNumber),
		zap.String("doc_type", string(sale.DocType)),
		zap.Int("items", len(items)),
	)
	return nil
}

// GetByID retrieves a sale by its UUID
func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`

	sale := &model.Sale{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sale.ID, &sale.CustomerID, &sale.DocType, &sale.DocumentNumber, &sale.IssuedAt,
		&sale.Subtotal, &sale.Tax, &sale.Discount, &sale.Total, &sale.Status, &sale.Notes,
		&sale.ReceiptPrintCount, &sale.DeliveryPrintCount, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sale not found with id: %s", id)
		}
		r.logger.Error("Failed to get sale", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	return sale, nil
}

// GetItems retrieves the line items of a sale in insertion order
func (r *saleRepository) GetItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_name, quantity, unit, unit_price, total,
			   conversion_rule_name, converted_quantity, converted_unit
		FROM sale_items WHERE sale_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale items: %w", err)
	}
	defer rows.Close()

	var items []model.SaleItem
	for rows.Next() {
		var item model.SaleItem
		err := rows.Scan(
			&item.ID, &item.SaleID, &item.ProductName, &item.Quantity, &item.Unit,
			&item.UnitPrice, &item.Total, &item.ConversionRuleName,
			&item.ConvertedQuantity, &item.ConvertedUnit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetDeliveryInfo retrieves the delivery record of a sale, or nil when
// the sale has none.
func (r *saleRepository) GetDeliveryInfo(ctx context.Context, saleID uuid.UUID) (*model.DeliveryInfo, error) {
	query := `
		SELECT id, sale_id, driver_name, truck_plate,
			   empty_weight, full_weight, delivery_address
		FROM delivery_info WHERE sale_id = $1
	`

	info := &model.DeliveryInfo{}
	err := r.db.QueryRowContext(ctx, query, saleID).Scan(
		&info.ID, &info.SaleID, &info.DriverName, &info.TruckPlate,
		&info.EmptyWeight, &info.FullWeight, &info.DeliveryAddress,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get delivery info: %w", err)
	}

	return info, nil
}

// List retrieves sales matching the filter, newest first
func (r *saleRepository) List(ctx context.Context, filter SaleFilter) ([]*model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argIndex)
		args = append(args, *filter.CustomerID)
		argIndex++
	}
	if filter.DocType != nil {
		query += fmt.Sprintf(" AND doc_type = $%d", argIndex)
		args = append(args, *filter.DocType)
		argIndex++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	query += " ORDER BY issued_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var sales []*model.Sale
	for rows.Next() {
		sale := &model.Sale{}
		err := rows.Scan(
			&sale.ID, &sale.CustomerID, &sale.DocType, &sale.DocumentNumber, &sale.IssuedAt,
			&sale.Subtotal, &sale.Tax, &sale.Discount, &sale.Total, &sale.Status, &sale.Notes,
			&sale.ReceiptPrintCount, &sale.DeliveryPrintCount, &sale.CreatedAt, &sale.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	return sales, rows.Err()
}

// Delete removes a sale and, through cascades, its items and delivery
// record.
func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sale not found with id: %s", id)
	}

	r.logger.Info("Sale deleted", zap.String("id", id.String()))
	return nil
}

// IncrementPrintCount bumps the print counter for the document type.
// The counter only ever increases.
func (r *saleRepository) IncrementPrintCount(ctx context.Context, id uuid.UUID, docType model.DocumentType) (*model.Sale, error) {
	column := "receipt_print_count"
	if docType == model.DocumentTypeDeliveryAuth {
		column = "delivery_print_count"
	}

	query := fmt.Sprintf(`
		UPDATE sales
		SET %s = %s + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING `+saleColumns, column, column)

	sale := &model.Sale{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sale.ID, &sale.CustomerID, &sale.DocType, &sale.DocumentNumber, &sale.IssuedAt,
		&sale.Subtotal, &sale.Tax, &sale.Discount, &sale.Total, &sale.Status, &sale.Notes,
		&sale.ReceiptPrintCount, &sale.DeliveryPrintCount, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sale not found with id: %s", id)
		}
		return nil, fmt.Errorf("failed to increment print count: %w", err)
	}

	r.logger.Info("Print count incremented",
		zap.String("document_number", sale.DocumentNumber),
		zap.String("doc_type", string(docType)),
	)
	return sale, nil
}
