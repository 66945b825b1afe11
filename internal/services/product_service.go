package services

import (
	"errors"
	"strings"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name              string
	Description       string
	Unit              string
	PricePerUnit      decimal.Decimal
	QuantityAvailable decimal.Decimal
	QualityGrade      string
}

var productUnits = map[string]bool{
	models.UnitKg:    true,
	models.UnitTons:  true,
	models.UnitBags:  true,
	models.UnitSacks: true,
}

type ProductService struct {
	productRepo *repository.ProductRepository
	userRepo    *repository.UserRepository
	db          *gorm.DB
}

func NewProductService(productRepo *repository.ProductRepository, userRepo *repository.UserRepository, db *gorm.DB) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		userRepo:    userRepo,
		db:          db,
	}
}

func (s *ProductService) CreateProduct(farmerID uint, input ProductInput) (*models.RiceProduct, error) {
	if err := s.requireFarmer(farmerID); err != nil {
		return nil, err
	}
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}
	if input.QuantityAvailable.IsNegative() {
		return nil, newError(KindValidation, "quantity cannot be negative")
	}

	product := &models.RiceProduct{
		FarmerID:          farmerID,
		Name:              input.Name,
		Description:       input.Description,
		Unit:              input.Unit,
		PricePerUnit:      input.PricePerUnit.Round(2),
		QuantityAvailable: input.QuantityAvailable.Round(2),
		QualityGrade:      input.QualityGrade,
		IsAvailable:       true,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	if !product.QuantityAvailable.IsPositive() {
		product.IsAvailable = false
		if err := s.productRepo.Update(product); err != nil {
			return nil, err
		}
	}
	return product, nil
}

// UpdateProduct changes the listing details. Stock moves only through
// orders and Restock, so QuantityAvailable in the input is ignored.
// Orders already placed keep the price they were placed at.
func (s *ProductService) UpdateProduct(farmerID, productID uint, input ProductInput) (*models.RiceProduct, error) {
	product, err := s.ownedProduct(farmerID, productID)
	if err != nil {
		return nil, err
	}
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Unit = input.Unit
	product.PricePerUnit = input.PricePerUnit.Round(2)
	product.QualityGrade = input.QualityGrade

	if err := s.productRepo.UpdateDetails(product); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(product.ID)
}

func (s *ProductService) Restock(farmerID, productID uint, quantity decimal.Decimal) (*models.RiceProduct, error) {
	quantity = quantity.Round(2)
	if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.ownedProduct(farmerID, productID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.productRepo.RestoreStockInTx(tx, productID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(productID)
}

func (s *ProductService) DeleteProduct(farmerID, productID uint) error {
	if _, err := s.ownedProduct(farmerID, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(productID)
}

func (s *ProductService) GetProduct(productID uint) (*models.RiceProduct, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ListAvailable(query string, page, limit int) ([]models.RiceProduct, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	query = strings.TrimSpace(query)

	products, err := s.productRepo.ListAvailable(query, page, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountAvailable(query)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *ProductService) ListMine(farmerID uint) ([]models.RiceProduct, error) {
	return s.productRepo.ListByFarmer(farmerID)
}

func (s *ProductService) ownedProduct(farmerID, productID uint) (*models.RiceProduct, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if product.FarmerID != farmerID {
		return nil, ErrNotOwner
	}
	return product, nil
}

func (s *ProductService) requireFarmer(userID uint) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.IsFarmer() {
		return ErrFarmerOnly
	}
	return nil
}

func validateProductInput(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return newError(KindValidation, "product name is required")
	}
	if input.Unit == "" {
		input.Unit = models.UnitKg
	}
	if !productUnits[input.Unit] {
		return newError(KindValidation, "unit must be one of kg, tons, bags, sacks")
	}
	if !input.PricePerUnit.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}
