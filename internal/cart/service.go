package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pigeonhq/pigeon-backend/pkg/db/models"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	minItemQuantity = 1
	maxItemQuantity = 99
)

// CartRepository exposes the persistence surface the service consumes.
type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindByUserID(ctx context.Context, userID string) (*models.Cart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (int64, error)
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (int64, error)
	DeleteItems(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) error
	DeleteAllItems(ctx context.Context, cartID uuid.UUID) error
}

// AddItemInput is the validated payload for adding a cart line.
type AddItemInput struct {
	SellerID          uuid.UUID
	ProductTitle      string
	ProductImage      *string
	PricePerUnitCents int64
	Quantity          int
}

// Service exposes stateful cart operations.
type Service interface {
	GetOrCreateCart(ctx context.Context, userID string) (*models.Cart, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.Cart, error)
	RemoveItems(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (*models.Cart, error)
	RemoveAllItems(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
}

type service struct {
	repo CartRepository
}

// NewService builds a cart service backed by the provided repository.
func NewService(repo CartRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo}, nil
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// use.
func (s *service) GetOrCreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	created, err := s.repo.Create(ctx, &models.Cart{UserID: userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return created, nil
}

// GetCart loads a cart by id.
func (s *service) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "cart %s not found", cartID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cart, nil
}

// AddItem appends a validated line to the cart and returns the updated
// cart.
func (s *service) AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*models.Cart, error) {
	if err := validateAddItem(input); err != nil {
		return nil, err
	}
	if _, err := s.GetCart(ctx, cartID); err != nil {
		return nil, err
	}
	item := &models.CartItem{
		CartID:            cartID,
		SellerID:          input.SellerID,
		ProductImage:      input.ProductImage,
		ProductTitle:      strings.TrimSpace(input.ProductTitle),
		PricePerUnitCents: input.PricePerUnitCents,
		Quantity:          input.Quantity,
	}
	if _, err := s.repo.AddItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}
	return s.GetCart(ctx, cartID)
}

// UpdateItemQuantity sets the quantity of one line and returns the
// updated cart.
func (s *service) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < minItemQuantity || quantity > maxItemQuantity {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be between %d and %d", minItemQuantity, maxItemQuantity)
	}
	affected, err := s.repo.UpdateItemQuantity(ctx, cartID, itemID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "cart item %s not found", itemID)
	}
	return s.GetCart(ctx, cartID)
}

// RemoveItem drops one line and returns the updated cart.
func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.Cart, error) {
	affected, err := s.repo.DeleteItem(ctx, cartID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "cart item %s not found", itemID)
	}
	return s.GetCart(ctx, cartID)
}

// RemoveItems drops the given lines and returns the updated cart.
func (s *service) RemoveItems(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (*models.Cart, error) {
	if _, err := s.GetCart(ctx, cartID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItems(ctx, cartID, itemIDs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart items")
	}
	return s.GetCart(ctx, cartID)
}

// RemoveAllItems empties the cart and returns it.
func (s *service) RemoveAllItems(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	if _, err := s.GetCart(ctx, cartID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteAllItems(ctx, cartID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "empty cart")
	}
	return s.GetCart(ctx, cartID)
}

func validateAddItem(input AddItemInput) error {
	if input.SellerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	if strings.TrimSpace(input.ProductTitle) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}
	if input.PricePerUnitCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price per unit must be positive")
	}
	if input.Quantity < minItemQuantity || input.Quantity > maxItemQuantity {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be between %d and %d", minItemQuantity, maxItemQuantity)
	}
	return nil
}
