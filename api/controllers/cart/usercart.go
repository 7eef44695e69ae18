package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pigeonhq/pigeon-backend/api/responses"
	"github.com/pigeonhq/pigeon-backend/api/validators"
	cartsvc "github.com/pigeonhq/pigeon-backend/internal/cart"
	"github.com/pigeonhq/pigeon-backend/pkg/db/models"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"github.com/pigeonhq/pigeon-backend/pkg/logger"
)

// UserCartAddItemRequest adds a validated line to a persisted cart.
type UserCartAddItemRequest struct {
	SellerID          string  `json:"sellerId" validate:"required,uuid4"`
	ProductTitle      string  `json:"productTitle" validate:"required"`
	ProductImage      *string `json:"productImage,omitempty"`
	PricePerUnitCents int64   `json:"pricePerUnitCents" validate:"required,gt=0"`
	Quantity          int     `json:"quantity" validate:"required,min=1,max=99"`
}

// UserCartUpdateItemRequest changes a persisted line's quantity.
type UserCartUpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=99"`
}

// UserCartRemoveItemsRequest drops a set of persisted lines.
type UserCartRemoveItemsRequest struct {
	ItemIDs []string `json:"itemIds" validate:"required,min=1,dive,uuid4"`
}

// UserCartFetch returns the user's persisted cart, creating it on first
// use.
func UserCartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")

		cart, err := svc.GetOrCreateCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUserCart(w, cart)
	}
}

// UserCartAddItem appends a line to the persisted cart.
func UserCartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UserCartAddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkUserCartIfMatch(r, svc, cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sellerID, err := uuid.Parse(payload.SellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seller id"))
			return
		}

		cart, err := svc.AddItem(r.Context(), cartID, cartsvc.AddItemInput{
			SellerID:          sellerID,
			ProductTitle:      payload.ProductTitle,
			ProductImage:      payload.ProductImage,
			PricePerUnitCents: payload.PricePerUnitCents,
			Quantity:          payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUserCart(w, cart)
	}
}

// UserCartUpdateItem changes one persisted line's quantity.
func UserCartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := itemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UserCartUpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkUserCartIfMatch(r, svc, cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateItemQuantity(r.Context(), cartID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUserCart(w, cart)
	}
}

// UserCartRemoveItem drops one persisted line.
func UserCartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := itemIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkUserCartIfMatch(r, svc, cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), cartID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUserCart(w, cart)
	}
}

// UserCartRemoveItems drops the listed lines, or every line when no body
// is supplied.
func UserCartRemoveItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkUserCartIfMatch(r, svc, cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if r.ContentLength == 0 {
			cart, err := svc.RemoveAllItems(r.Context(), cartID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			writeUserCart(w, cart)
			return
		}

		var payload UserCartRemoveItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemIDs := make([]uuid.UUID, 0, len(payload.ItemIDs))
		for _, raw := range payload.ItemIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
				return
			}
			itemIDs = append(itemIDs, id)
		}

		cart, err := svc.RemoveItems(r.Context(), cartID, itemIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeUserCart(w, cart)
	}
}

// UserCartDTO is the persisted cart payload.
type UserCartDTO struct {
	ID     string            `json:"id"`
	UserID string            `json:"userId"`
	Items  []UserCartItemDTO `json:"items"`
}

// UserCartItemDTO is one persisted cart line.
type UserCartItemDTO struct {
	ID                string  `json:"id"`
	SellerID          string  `json:"sellerId"`
	ProductImage      *string `json:"productImage,omitempty"`
	ProductTitle      string  `json:"productTitle"`
	PricePerUnitCents int64   `json:"pricePerUnitCents"`
	Quantity          int     `json:"quantity"`
}

func toUserCartDTO(cart *models.Cart) UserCartDTO {
	items := make([]UserCartItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, UserCartItemDTO{
			ID:                item.ID.String(),
			SellerID:          item.SellerID.String(),
			ProductImage:      item.ProductImage,
			ProductTitle:      item.ProductTitle,
			PricePerUnitCents: item.PricePerUnitCents,
			Quantity:          item.Quantity,
		})
	}
	return UserCartDTO{
		ID:     cart.ID.String(),
		UserID: cart.UserID,
		Items:  items,
	}
}

func userCartETag(cart *models.Cart) string {
	var b strings.Builder
	b.WriteString(cart.ID.String())
	for _, item := range cart.Items {
		fmt.Fprintf(&b, "|%s:%d:%d", item.ID, item.Quantity, item.PricePerUnitCents)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func writeUserCart(w http.ResponseWriter, cart *models.Cart) {
	w.Header().Set("ETag", userCartETag(cart))
	responses.WriteSuccess(w, toUserCartDTO(cart))
}

func checkUserCartIfMatch(r *http.Request, svc cartsvc.Service, cartID uuid.UUID) error {
	match := r.Header.Get("If-Match")
	if match == "" {
		return nil
	}
	cart, err := svc.GetCart(r.Context(), cartID)
	if err != nil {
		return err
	}
	if match != userCartETag(cart) {
		return pkgerrors.New(pkgerrors.CodePrecondition, "cart was modified by another request")
	}
	return nil
}

func cartIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "cartId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart id")
	}
	return id, nil
}

func itemIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return id, nil
}
