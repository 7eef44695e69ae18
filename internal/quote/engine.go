package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	product "github.com/pigeonhq/pigeon-backend/internal/products"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"github.com/pigeonhq/pigeon-backend/pkg/logger"
	"github.com/pigeonhq/pigeon-backend/pkg/metrics"
	"github.com/pigeonhq/pigeon-backend/pkg/money"
	"github.com/pigeonhq/pigeon-backend/pkg/quantity"
)

// Engine prices a cart from its requested item list.
type Engine interface {
	CalculateQuote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error)
}

type catalogLookup interface {
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]product.Product, error)
}

type engine struct {
	catalog    catalogLookup
	calculator *money.Calculator
	logg       *logger.Logger
	metrics    *metrics.QuoteMetrics
}

// NewEngine builds the quote engine. Metrics may be nil.
func NewEngine(catalog catalogLookup, calculator *money.Calculator, logg *logger.Logger, qm *metrics.QuoteMetrics) (Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("quote engine requires a catalog lookup")
	}
	if calculator == nil {
		return nil, fmt.Errorf("quote engine requires a calculator")
	}
	if logg == nil {
		return nil, fmt.Errorf("quote engine requires a logger")
	}
	return &engine{catalog: catalog, calculator: calculator, logg: logg, metrics: qm}, nil
}

// CalculateQuote re-prices the requested items against the catalog.
// Missing products fail the whole request; lines whose clipped quantity
// is zero are dropped from the result.
func (e *engine) CalculateQuote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	start := time.Now()
	resp, dropped, err := e.calculate(ctx, req)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	e.metrics.ObserveDuration(outcome, time.Since(start))
	e.metrics.IncRequest(outcome)
	e.metrics.IncDroppedLines(dropped)
	return resp, err
}

func (e *engine) calculate(ctx context.Context, req *QuoteRequest) (*QuoteResponse, int, error) {
	if req == nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeInvalidArgument, "quote request is required")
	}

	ctx = e.logg.WithCartID(ctx, req.CartID)

	byID, err := e.catalog.GetProductsByIDs(ctx, distinctProductIDs(req.Items))
	if err != nil {
		return nil, 0, err
	}

	items := make([]CartItem, 0, len(req.Items))
	lines := make([]money.Line, 0, len(req.Items))
	dropped := 0
	for _, item := range req.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, 0, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", item.ProductID).
				WithDetails(map[string]any{"productId": item.ProductID})
		}

		line := money.Line{Price: p.Price, ListPrice: p.ListPrice}
		if err := e.calculator.CheckLine(line); err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInvalidArgument, err, "catalog price currency mismatch").
				WithDetails(map[string]any{"productId": p.ID})
		}

		qty, err := quantity.Clip(item.Quantity, p.MinQty, p.MaxQty, &p.Availability)
		if err != nil {
			return nil, 0, err
		}
		if qty == 0 {
			dropped++
			continue
		}

		items = append(items, CartItem{
			ItemID:    uuid.NewString(),
			ProductID: p.ID,
			Quantity:  qty,
			Price:     p.Price,
			ListPrice: p.ListPrice,
		})
		line.Quantity = qty
		lines = append(lines, line)
	}

	subtotal := e.calculator.Subtotal(lines)
	delivery := money.Zero(e.calculator.Currency())
	total := e.calculator.GrandTotal(subtotal, delivery)

	logCtx := e.logg.WithFields(ctx, map[string]any{
		"lines":   len(items),
		"dropped": dropped,
		"total":   total.Amount,
	})
	e.logg.Info(logCtx, "quote computed")

	return &QuoteResponse{
		CartID: req.CartID,
		Items:  items,
		Computed: CartComputed{
			Subtotal: subtotal,
			Delivery: delivery,
			Total:    total,
		},
	}, dropped, nil
}

func distinctProductIDs(items []QuoteItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
