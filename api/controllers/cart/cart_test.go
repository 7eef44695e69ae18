package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pigeonhq/pigeon-backend/internal/cartstore"
	"github.com/pigeonhq/pigeon-backend/internal/quote"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"github.com/pigeonhq/pigeon-backend/pkg/money"
	"github.com/pigeonhq/pigeon-backend/pkg/types"
)

const unitPriceCents = 10000

// stubEngine prices every product at a flat unit price and fails for
// product ids carrying a "missing-" prefix.
type stubEngine struct {
	lastRequest *quote.QuoteRequest
	calls       int
}

func (e *stubEngine) CalculateQuote(_ context.Context, req *quote.QuoteRequest) (*quote.QuoteResponse, error) {
	e.calls++
	e.lastRequest = req
	if req == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "quote request is required")
	}

	items := make([]quote.CartItem, 0, len(req.Items))
	total := int64(0)
	for i, item := range req.Items {
		if strings.HasPrefix(item.ProductID, "missing-") {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", item.ProductID).
				WithDetails(map[string]any{"productId": item.ProductID})
		}
		items = append(items, quote.CartItem{
			ItemID:    fmt.Sprintf("item-%d-%d", e.calls, i),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     money.Money{Amount: unitPriceCents, Currency: "PLN"},
		})
		total += int64(item.Quantity) * unitPriceCents
	}
	subtotal := money.Money{Amount: total, Currency: "PLN"}
	return &quote.QuoteResponse{
		CartID: req.CartID,
		Items:  items,
		Computed: quote.CartComputed{
			Subtotal: subtotal,
			Delivery: money.Zero("PLN"),
			Total:    subtotal,
		},
	}, nil
}

func newCartRouter(engine quote.Engine, store cartstore.Store) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/carts/{cartId}", func(r chi.Router) {
		r.Get("/", Fetch(store, nil))
		r.Post("/quote", Quote(engine, store, nil))
		r.Post("/items", AddItem(engine, store, nil))
		r.Patch("/items/{itemId}", UpdateItem(engine, store, nil))
		r.Delete("/items/{itemId}", RemoveItem(engine, store, nil))
	})
	return r
}

func decodeSnapshot(t *testing.T, resp *httptest.ResponseRecorder) quote.QuoteResponse {
	t.Helper()

	var envelope struct {
		Data quote.QuoteResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestQuoteSuccess(t *testing.T) {
	engine := &stubEngine{}
	store := cartstore.NewMemoryStore()
	router := newCartRouter(engine, store)

	body := `{"cartId":"c1","items":[{"productId":"p1","quantity":2},{"productId":"p2","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("ETag") == "" {
		t.Fatal("expected ETag header")
	}

	data := decodeSnapshot(t, resp)
	if data.CartID != "c1" || len(data.Items) != 2 {
		t.Fatalf("unexpected quote: %+v", data)
	}
	if data.Computed.Subtotal.Amount != 3*unitPriceCents {
		t.Fatalf("unexpected subtotal %d", data.Computed.Subtotal.Amount)
	}

	saved, err := store.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("expected snapshot persisted: %v", err)
	}
	if len(saved.Items) != 2 {
		t.Fatalf("unexpected persisted items: %+v", saved.Items)
	}
}

func TestQuoteCartIDMismatch(t *testing.T) {
	router := newCartRouter(&stubEngine{}, cartstore.NewMemoryStore())

	body := `{"cartId":"other","items":[{"productId":"p1","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error types.APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
}

func TestQuoteUnknownProductMapsToBadRequest(t *testing.T) {
	router := newCartRouter(&stubEngine{}, cartstore.NewMemoryStore())

	body := `{"cartId":"c1","items":[{"productId":"missing-p","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error types.APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInvalidArgument) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
}

func TestQuoteRejectsMalformedBody(t *testing.T) {
	router := newCartRouter(&stubEngine{}, cartstore.NewMemoryStore())

	body := `{"cartId":"c1","items":[{"productId":"p1","quantity":1}],"extra":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddItemMergesSnapshot(t *testing.T) {
	engine := &stubEngine{}
	store := cartstore.NewMemoryStore()
	router := newCartRouter(engine, store)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items",
		strings.NewReader(`{"productId":"p1","quantity":2}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, first)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items",
		strings.NewReader(`{"productId":"p2","quantity":1}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, second)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	data := decodeSnapshot(t, resp)
	if len(data.Items) != 2 {
		t.Fatalf("expected merged item set, got %+v", data.Items)
	}
	if engine.lastRequest == nil || len(engine.lastRequest.Items) != 2 {
		t.Fatalf("expected rebuilt item list, got %+v", engine.lastRequest)
	}
}

func TestUpdateItemQuantity(t *testing.T) {
	engine := &stubEngine{}
	store := cartstore.NewMemoryStore()
	router := newCartRouter(engine, store)

	add := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items",
		strings.NewReader(`{"productId":"p1","quantity":2}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, add)
	itemID := decodeSnapshot(t, resp).Items[0].ItemID

	update := httptest.NewRequest(http.MethodPatch, "/api/v1/carts/c1/items/"+itemID,
		strings.NewReader(`{"quantity":5}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, update)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	data := decodeSnapshot(t, resp)
	if data.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", data.Items[0].Quantity)
	}
}

func TestUpdateItemUnknownItem(t *testing.T) {
	engine := &stubEngine{}
	store := cartstore.NewMemoryStore()
	router := newCartRouter(engine, store)

	add := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items",
		strings.NewReader(`{"productId":"p1","quantity":2}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, add)

	update := httptest.NewRequest(http.MethodPatch, "/api/v1/carts/c1/items/nope",
		strings.NewReader(`{"quantity":5}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, update)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestUpdateItemUnknownCart(t *testing.T) {
	router := newCartRouter(&stubEngine{}, cartstore.NewMemoryStore())

	update := httptest.NewRequest(http.MethodPatch, "/api/v1/carts/ghost/items/x",
		strings.NewReader(`{"quantity":5}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, update)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestRemoveItem(t *testing.T) {
	engine := &stubEngine{}
	store := cartstore.NewMemoryStore()
	router := newCartRouter(engine, store)

	for _, body := range []string{
		`{"productId":"p1","quantity":2}`,
		`{"productId":"p2","quantity":1}`,
	} {
		add := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, add)
		if resp.Code != http.StatusOK {
			t.Fatalf("seed add failed: %d", resp.Code)
		}
	}

	snapshot, err := store.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	victim := snapshot.Items[0].ItemID

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/carts/c1/items/"+victim, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, del)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	data := decodeSnapshot(t, resp)
	if len(data.Items) != 1 {
		t.Fatalf("expected one remaining item, got %+v", data.Items)
	}
}

func TestFetchSnapshot(t *testing.T) {
	engine := &stubEngine{}
	store := cartstore.NewMemoryStore()
	router := newCartRouter(engine, store)

	add := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items",
		strings.NewReader(`{"productId":"p1","quantity":2}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, add)
	wantETag := resp.Header().Get("ETag")

	get := httptest.NewRequest(http.MethodGet, "/api/v1/carts/c1/", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, get)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("ETag"); got != wantETag {
		t.Fatalf("expected stable etag %s, got %s", wantETag, got)
	}
}

func TestFetchUnknownCart(t *testing.T) {
	router := newCartRouter(&stubEngine{}, cartstore.NewMemoryStore())

	get := httptest.NewRequest(http.MethodGet, "/api/v1/carts/ghost/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, get)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestIfMatchPreconditionFailed(t *testing.T) {
	engine := &stubEngine{}
	store := cartstore.NewMemoryStore()
	router := newCartRouter(engine, store)

	add := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items",
		strings.NewReader(`{"productId":"p1","quantity":2}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, add)

	stale := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items",
		strings.NewReader(`{"productId":"p2","quantity":1}`))
	stale.Header.Set("If-Match", `"stale-fingerprint"`)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, stale)

	if resp.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 got %d", resp.Code)
	}
}

func TestIfMatchCurrentETagAccepted(t *testing.T) {
	engine := &stubEngine{}
	store := cartstore.NewMemoryStore()
	router := newCartRouter(engine, store)

	add := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items",
		strings.NewReader(`{"productId":"p1","quantity":2}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, add)
	current := resp.Header().Get("ETag")

	next := httptest.NewRequest(http.MethodPost, "/api/v1/carts/c1/items",
		strings.NewReader(`{"productId":"p2","quantity":1}`))
	next.Header.Set("If-Match", current)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, next)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
