package cart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pigeonhq/pigeon-backend/api/responses"
	"github.com/pigeonhq/pigeon-backend/api/validators"
	"github.com/pigeonhq/pigeon-backend/internal/cartstore"
	"github.com/pigeonhq/pigeon-backend/internal/quote"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"github.com/pigeonhq/pigeon-backend/pkg/logger"
)

// Quote re-prices an explicit item list for the cart in the path. The
// body cart id must match.
func Quote(engine quote.Engine, store cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID := chi.URLParam(r, "cartId")

		var payload QuoteCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.CartID != cartID {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "cart id mismatch between path and body"))
			return
		}

		requote(w, r, engine, store, logg, &quote.QuoteRequest{
			CartID: cartID,
			Items:  toQuoteItems(payload.Items),
		})
	}
}

// AddItem appends one line to the latest snapshot's item set and
// re-quotes.
func AddItem(engine quote.Engine, store cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID := chi.URLParam(r, "cartId")

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := loadSnapshotOrEmpty(r, store, cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := checkIfMatch(r, snapshot); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := desiredItems(snapshot)
		items = append(items, quote.QuoteItem{ProductID: payload.ProductID, Quantity: payload.Quantity})

		requote(w, r, engine, store, logg, &quote.QuoteRequest{CartID: cartID, Items: items})
	}
}

// UpdateItem changes one snapshot line's requested quantity and
// re-quotes.
func UpdateItem(engine quote.Engine, store cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID := chi.URLParam(r, "cartId")
		itemID := chi.URLParam(r, "itemId")

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := loadSnapshot(r, store, cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := checkIfMatch(r, snapshot); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, found := rebuildWithQuantity(snapshot, itemID, payload.Quantity)
		if !found {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Newf(pkgerrors.CodeNotFound, "cart item %s not found", itemID))
			return
		}

		requote(w, r, engine, store, logg, &quote.QuoteRequest{CartID: cartID, Items: items})
	}
}

// RemoveItem drops one snapshot line and re-quotes the remainder.
func RemoveItem(engine quote.Engine, store cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID := chi.URLParam(r, "cartId")
		itemID := chi.URLParam(r, "itemId")

		snapshot, err := loadSnapshot(r, store, cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := checkIfMatch(r, snapshot); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, found := rebuildWithout(snapshot, itemID)
		if !found {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Newf(pkgerrors.CodeNotFound, "cart item %s not found", itemID))
			return
		}

		requote(w, r, engine, store, logg, &quote.QuoteRequest{CartID: cartID, Items: items})
	}
}

// Fetch returns the latest snapshot for the cart.
func Fetch(store cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID := chi.URLParam(r, "cartId")

		snapshot, err := loadSnapshot(r, store, cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("ETag", snapshotETag(snapshot))
		responses.WriteSuccess(w, snapshot)
	}
}

func requote(w http.ResponseWriter, r *http.Request, engine quote.Engine, store cartstore.Store, logg *logger.Logger, req *quote.QuoteRequest) {
	resp, err := engine.CalculateQuote(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, asBoundaryError(err))
		return
	}
	if err := store.Save(r.Context(), resp); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	w.Header().Set("ETag", snapshotETag(resp))
	responses.WriteSuccess(w, resp)
}

func loadSnapshot(r *http.Request, store cartstore.Store, cartID string) (*quote.CartSnapshot, error) {
	snapshot, err := store.Get(r.Context(), cartID)
	if err != nil {
		if errors.Is(err, cartstore.ErrSnapshotNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "cart %s not found", cartID)
		}
		return nil, err
	}
	return snapshot, nil
}

func loadSnapshotOrEmpty(r *http.Request, store cartstore.Store, cartID string) (*quote.CartSnapshot, error) {
	snapshot, err := store.Get(r.Context(), cartID)
	if err != nil {
		if errors.Is(err, cartstore.ErrSnapshotNotFound) {
			return &quote.CartSnapshot{CartID: cartID}, nil
		}
		return nil, err
	}
	return snapshot, nil
}

// checkIfMatch enforces optimistic concurrency when the caller supplies
// an If-Match header.
func checkIfMatch(r *http.Request, snapshot *quote.CartSnapshot) error {
	match := r.Header.Get("If-Match")
	if match == "" {
		return nil
	}
	if match != snapshotETag(snapshot) {
		return pkgerrors.New(pkgerrors.CodePrecondition, "cart was modified by another request")
	}
	return nil
}

func desiredItems(snapshot *quote.CartSnapshot) []quote.QuoteItem {
	items := make([]quote.QuoteItem, 0, len(snapshot.Items)+1)
	for _, item := range snapshot.Items {
		items = append(items, quote.QuoteItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return items
}

func rebuildWithQuantity(snapshot *quote.CartSnapshot, itemID string, quantity int) ([]quote.QuoteItem, bool) {
	items := make([]quote.QuoteItem, 0, len(snapshot.Items))
	found := false
	for _, item := range snapshot.Items {
		qty := item.Quantity
		if item.ItemID == itemID {
			qty = quantity
			found = true
		}
		items = append(items, quote.QuoteItem{ProductID: item.ProductID, Quantity: qty})
	}
	return items, found
}

func rebuildWithout(snapshot *quote.CartSnapshot, itemID string) ([]quote.QuoteItem, bool) {
	items := make([]quote.QuoteItem, 0, len(snapshot.Items))
	found := false
	for _, item := range snapshot.Items {
		if item.ItemID == itemID {
			found = true
			continue
		}
		items = append(items, quote.QuoteItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return items, found
}

// asBoundaryError maps a product-not-found from the engine to a bad
// request. At this surface the missing product is a payload problem, not
// a missing resource.
func asBoundaryError(err error) error {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		return err
	}
	mapped := pkgerrors.New(pkgerrors.CodeInvalidArgument, typed.Message())
	if details := typed.Details(); details != nil {
		mapped = mapped.WithDetails(details)
	}
	return mapped
}
