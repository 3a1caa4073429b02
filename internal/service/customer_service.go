// internal/service/customer_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-service/internal/model"
	"pos-service/internal/repository"
	"pos-service/internal/utils"
)

// CustomerService handles customers and the delivery fleet
type CustomerService struct {
	customerRepo repository.CustomerRepository
	fleetRepo    repository.FleetRepository
	logger       *utils.ServiceLogger
}

// NewCustomerService creates a new customer service instance
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	fleetRepo repository.FleetRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		fleetRepo:    fleetRepo,
		logger:       utils.NewServiceLogger(logger, "customer-service"),
	}
}

// CustomerRequest represents customer create/update payload
type CustomerRequest struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// CreateCustomer creates a new customer
func (cs *CustomerService) CreateCustomer(ctx context.Context, req *CustomerRequest) (*model.Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	now := time.Now()
	customer := &model.Customer{
		ID:        uuid.New(),
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := cs.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by id
func (cs *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return cs.customerRepo.GetByID(ctx, id)
}

// ListCustomers retrieves all customers
func (cs *CustomerService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	return cs.customerRepo.List(ctx)
}

// UpdateCustomer updates a customer
func (cs *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *CustomerRequest) (*model.Customer, error) {
	customer, err := cs.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) != "" {
		customer.Name = req.Name
	}
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.Notes = req.Notes

	if err := cs.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer
func (cs *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return cs.customerRepo.Delete(ctx, id)
}

// DriverRequest represents driver create/update payload
type DriverRequest struct {
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CreateDriver creates a new driver
func (cs *CustomerService) CreateDriver(ctx context.Context, req *DriverRequest) (*model.Driver, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	driver := &model.Driver{
		ID:        uuid.New(),
		Name:      req.Name,
		Phone:     req.Phone,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if req.IsActive != nil {
		driver.IsActive = *req.IsActive
	}

	if err := cs.fleetRepo.CreateDriver(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// ListDrivers retrieves drivers
func (cs *CustomerService) ListDrivers(ctx context.Context, activeOnly bool) ([]*model.Driver, error) {
	return cs.fleetRepo.ListDrivers(ctx, activeOnly)
}

// UpdateDriver updates a driver
func (cs *CustomerService) UpdateDriver(ctx context.Context, id uuid.UUID, req *DriverRequest) (*model.Driver, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	driver := &model.Driver{
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		IsActive: true,
	}
	if req.IsActive != nil {
		driver.IsActive = *req.IsActive
	}

	if err := cs.fleetRepo.UpdateDriver(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// DeleteDriver removes a driver
func (cs *CustomerService) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	return cs.fleetRepo.DeleteDriver(ctx, id)
}

// TruckRequest represents truck create/update payload
type TruckRequest struct {
	PlateNumber string  `json:"plate_number"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CreateTruck creates a new truck
func (cs *CustomerService) CreateTruck(ctx context.Context, req *TruckRequest) (*model.Truck, error) {
	if strings.TrimSpace(req.PlateNumber) == "" {
		return nil, fmt.Errorf("plate_number is required")
	}

	truck := &model.Truck{
		ID:          uuid.New(),
		PlateNumber: req.PlateNumber,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if req.IsActive != nil {
		truck.IsActive = *req.IsActive
	}

	if err := cs.fleetRepo.CreateTruck(ctx, truck); err != nil {
		return nil, err
	}
	return truck, nil
}

// ListTrucks retrieves trucks
func (cs *CustomerService) ListTrucks(ctx context.Context, activeOnly bool) ([]*model.Truck, error) {
	return cs.fleetRepo.ListTrucks(ctx, activeOnly)
}

// UpdateTruck updates a truck
func (cs *CustomerService) UpdateTruck(ctx context.Context, id uuid.UUID, req *TruckRequest) (*model.Truck, error) {
	if strings.TrimSpace(req.PlateNumber) == "" {
		return nil, fmt.Errorf("plate_number is required")
	}

	truck := &model.Truck{
		ID:          id,
		PlateNumber: req.PlateNumber,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		truck.IsActive = *req.IsActive
	}

	if err := cs.fleetRepo.UpdateTruck(ctx, truck); err != nil {
		return nil, err
	}
	return truck, nil
}

// DeleteTruck removes a truck
func (cs *CustomerService) DeleteTruck(ctx context.Context, id uuid.UUID) error {
	return cs.fleetRepo.DeleteTruck(ctx, id)
}
