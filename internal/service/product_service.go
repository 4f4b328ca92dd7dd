package service

import (
	"errors"
	"strconv"

	"coffee-pos/internal/model"
	"coffee-pos/internal/repository"
	"coffee-pos/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrProductMissing = errors.New("product not found")

// ProductInput is the body of product create and update requests.
type ProductInput struct {
	Name     string           `json:"name" validate:"required,max=255"`
	Category string           `json:"category" validate:"required,oneof=coffee tea cold_drink snack dessert other"`
	PriceOMR *decimal.Decimal `json:"price_omr" validate:"required,gte=0"`
	IsActive *bool            `json:"is_active"`
}

type ProductService interface {
	CreateProduct(req *ProductInput, userID uint) (*model.Product, error)
	UpdateProduct(id uint, req *ProductInput, userID uint) (*model.Product, error)
	DeleteProduct(id uint, userID uint) error
	GetAllProducts() ([]model.Product, error)
	GetActiveProducts() ([]model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewProductService(pRepo repository.ProductRepository, db *gorm.DB) ProductService {
	return &productService{productRepo: pRepo, db: db}
}

func (s *productService) CreateProduct(req *ProductInput, userID uint) (*model.Product, error) {
	if err := validator.FirstError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}

	actor := strconv.FormatUint(uint64(userID), 10)
	product := &model.Product{
		Name:     req.Name,
		Category: model.Category(req.Category),
		PriceOMR: req.PriceOMR.Round(moneyPlaces),
		IsActive: true,
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(id uint, req *ProductInput, userID uint) (*model.Product, error) {
	if err := validator.FirstError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductMissing
			}
			return err
		}

		existing.Name = req.Name
		existing.Category = model.Category(req.Category)
		existing.PriceOMR = req.PriceOMR.Round(moneyPlaces)
		if req.IsActive != nil {
			existing.IsActive = *req.IsActive
		}
		existing.UpdatedBy = strconv.FormatUint(uint64(userID), 10)

		if err := s.productRepo.Save(tx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *productService) DeleteProduct(id uint, userID uint) error {
	ok, err := s.productRepo.Delete(id, strconv.FormatUint(uint64(userID), 10))
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductMissing
	}
	return nil
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetActiveProducts() ([]model.Product, error) {
	return s.productRepo.FindActive()
}
