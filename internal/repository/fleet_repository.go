// internal/repository/fleet_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-service/internal/database"
	"pos-service/internal/model"
)

// fleetRepository implements FleetRepository interface
type fleetRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewFleetRepository creates a new fleet repository
func NewFleetRepository(db *database.DB, logger *zap.Logger) FleetRepository {
	return &fleetRepository{
		db:     db,
		logger: logger,
	}
}

// CreateDriver creates a new driver
func (r *fleetRepository) CreateDriver(ctx context.Context, driver *model.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, is_active)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, driver.ID, driver.Name, driver.Phone, driver.IsActive)
	if err != nil {
		r.logger.Error("Failed to create driver", zap.Error(err), zap.String("name", driver.Name))
		return fmt.Errorf("failed to create driver: %w", err)
	}

	return nil
}

// ListDrivers retrieves drivers, optionally only active ones
func (r *fleetRepository) ListDrivers(ctx context.Context, activeOnly bool) ([]*model.Driver, error) {
	query := `SELECT id, name, phone, is_active, created_at FROM drivers`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []*model.Driver
	for rows.Next() {
		driver := &model.Driver{}
		if err := rows.Scan(&driver.ID, &driver.Name, &driver.Phone, &driver.IsActive, &driver.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, driver)
	}

	return drivers, rows.Err()
}

// UpdateDriver updates a driver
func (r *fleetRepository) UpdateDriver(ctx context.Context, driver *model.Driver) error {
	query := `
		UPDATE drivers SET name = $2, phone = $3, is_active = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, driver.ID, driver.Name, driver.Phone, driver.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	return requireAffected(result, "driver", driver.ID)
}

// DeleteDriver removes a driver
func (r *fleetRepository) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	return requireAffected(result, "driver", id)
}

// CreateTruck creates a new truck
func (r *fleetRepository) CreateTruck(ctx context.Context, truck *model.Truck) error {
	query := `
		INSERT INTO trucks (id, plate_number, description, is_active)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, truck.ID, truck.PlateNumber, truck.Description, truck.IsActive)
	if err != nil {
		r.logger.Error("Failed to create truck", zap.Error(err), zap.String("plate_number", truck.PlateNumber))
		return fmt.Errorf("failed to create truck: %w", err)
	}

	return nil
}

// ListTrucks retrieves trucks, optionally only active ones
func (r *fleetRepository) ListTrucks(ctx context.Context, activeOnly bool) ([]*model.Truck, error) {
	query := `SELECT id, plate_number, description, is_active, created_at FROM trucks`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY plate_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", err)
	}
	defer rows.Close()

	var trucks []*model.Truck
	for rows.Next() {
		truck := &model.Truck{}
		if err := rows.Scan(&truck.ID, &truck.PlateNumber, &truck.Description, &truck.IsActive, &truck.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan truck: %w", err)
		}
		trucks = append(trucks, truck)
	}

	return trucks, rows.Err()
}

// UpdateTruck updates a truck
func (r *fleetRepository) UpdateTruck(ctx context.Context, truck *model.Truck) error {
	query := `
		UPDATE trucks SET plate_number = $2, description = $3, is_active = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, truck.ID, truck.PlateNumber, truck.Description, truck.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update truck: %w", err)
	}
	return requireAffected(result, "truck", truck.ID)
}

// DeleteTruck removes a truck
func (r *fleetRepository) DeleteTruck(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trucks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete truck: %w", err)
	}
	return requireAffected(result, "truck", id)
}
