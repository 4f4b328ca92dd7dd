package service

import (
	"context"
	"errors"
	"fmt"

	"coffee-pos/internal/events"
	"coffee-pos/internal/model"
	"coffee-pos/internal/repository"
	"coffee-pos/pkg/logging"

	"gorm.io/gorm"
)

var (
	ErrNotSnack       = errors.New("only snacks have inventory")
	ErrStockBelowZero = errors.New("insufficient stock")
)

type AdjustRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Delta     int  `json:"delta"`
}

type InventoryService interface {
	ListSnacks() ([]model.InventoryView, error)
	Adjust(ctx context.Context, req AdjustRequest) (*model.InventoryRecord, error)
}

type inventoryService struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	db            *gorm.DB
	publisher     events.Publisher
}

func NewInventoryService(pRepo repository.ProductRepository, iRepo repository.InventoryRepository, db *gorm.DB, pub events.Publisher) InventoryService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &inventoryService{
		productRepo:   pRepo,
		inventoryRepo: iRepo,
		db:            db,
		publisher:     pub,
	}
}

func (s *inventoryService) ListSnacks() ([]model.InventoryView, error) {
	return s.inventoryRepo.ListSnacks()
}

// Adjust applies a stock correction. It takes the same row lock as order
// placement, so a correction never races a sale on the same snack.
func (s *inventoryService) Adjust(ctx context.Context, req AdjustRequest) (*model.InventoryRecord, error) {
	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductMissing
		}
		return nil, err
	}
	if !product.Category.TracksInventory() {
		return nil, ErrNotSnack
	}

	var updated *model.InventoryRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.inventoryRepo.LockForUpdate(tx, product.ID)
		if err != nil {
			return err
		}

		next := rec.Quantity + req.Delta
		if next < 0 {
			return fmt.Errorf("%w: current=%d", ErrStockBelowZero, rec.Quantity)
		}

		updated, err = s.inventoryRepo.SetQuantity(tx, product.ID, next)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("inventory adjusted", "product_id", product.ID, "delta", req.Delta, "quantity", updated.Quantity)
	s.publisher.Publish(context.WithoutCancel(ctx), stockEvent("inventory_adjusted", product, updated.Quantity))
	return updated, nil
}
