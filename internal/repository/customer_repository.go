// internal/repository/customer_repository.go
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

// customerRepository implements CustomerRepository interface
type customerRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *database.DB, logger *zap.Logger) CustomerRepository {
	return &customerRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new customer
func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, address, notes)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID, customer.Name, customer.Phone, customer.Address, customer.Notes,
	)
	if err != nil {
		r.logger.Error("Failed to create customer", zap.Error(err), zap.String("name", customer.Name))
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by its UUID
func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `
		SELECT id, name, phone, address, notes, created_at, updated_at
		FROM customers WHERE id = $1
	`

	customer := &model.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID, &customer.Name, &customer.Phone, &customer.Address,
		&customer.Notes, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("customer not found with id: %s", id)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// List retrieves all customers ordered by name
func (r *customerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	query := `
		SELECT id, name, phone, address, notes, created_at, updated_at
		FROM customers ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*model.Customer
	for rows.Next() {
		customer := &model.Customer{}
		err := rows.Scan(
			&customer.ID, &customer.Name, &customer.Phone, &customer.Address,
			&customer.Notes, &customer.CreatedAt, &customer.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	return customers, rows.Err()
}

// Update updates a customer
func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, phone = $3, address = $4, notes = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.ID, customer.Name, customer.Phone, customer.Address, customer.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("customer not found with id: %s", customer.ID)
	}

	return nil
}

// Delete removes a customer
func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("customer not found with id: %s", id)
	}

	return nil
}
