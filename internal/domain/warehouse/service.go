// internal/domain/warehouse/service.go
package warehouse

import (
	"fmt"
	"strconv"

	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles warehouse business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new warehouse service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateWarehouseRequest represents warehouse creation data
type CreateWarehouseRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

// UpdateWarehouseRequest represents warehouse update data
type UpdateWarehouseRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
	Phone      *string `json:"phone"`
	IsActive   *bool   `json:"is_active"`
}

// CreateWarehouse creates a new warehouse
func (s *Service) CreateWarehouse(req *CreateWarehouseRequest) (*Warehouse, error) {
	// Check if code already exists
	var existing Warehouse
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("warehouse with code '%s' already exists", req.Code)
	}

	warehouse := &Warehouse{
		Code:       req.Code,
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		IsActive:   true,
	}

	if err := s.db.Create(warehouse).Error; err != nil {
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}

	return warehouse, nil
}

// GetWarehouse retrieves a warehouse by ID
func (s *Service) GetWarehouse(id uint) (*Warehouse, error) {
	var warehouse Warehouse
	if err := s.db.First(&warehouse, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &apperrors.NotFoundError{Resource: "warehouse", ID: strconv.FormatUint(uint64(id), 10)}
		}
		return nil, fmt.Errorf("failed to retrieve warehouse: %w", err)
	}
	return &warehouse, nil
}

// UpdateWarehouse updates warehouse fields
func (s *Service) UpdateWarehouse(id uint, req *UpdateWarehouseRequest) (*Warehouse, error) {
	warehouse, err := s.GetWarehouse(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.PostalCode != nil {
		updates["postal_code"] = *req.PostalCode
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return warehouse, nil
	}

	if err := s.db.Model(warehouse).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update warehouse: %w", err)
	}

	return warehouse, nil
}

// DeactivateWarehouse marks a warehouse as inactive
func (s *Service) DeactivateWarehouse(id uint) error {
	warehouse, err := s.GetWarehouse(id)
	if err != nil {
		return err
	}

	if err := s.db.Model(warehouse).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate warehouse: %w", err)
	}

	return nil
}

// ListWarehouses retrieves all warehouses, optionally only active ones
func (s *Service) ListWarehouses(activeOnly bool) ([]Warehouse, error) {
	query := s.db.Model(&Warehouse{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var warehouses []Warehouse
	if err := query.Order("code ASC").Find(&warehouses).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve warehouses: %w", err)
	}
	return warehouses, nil
}
