package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pigeonhq/pigeon-backend/api/responses"
	product "github.com/pigeonhq/pigeon-backend/internal/products"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"github.com/pigeonhq/pigeon-backend/pkg/logger"
)

// ProductDetail returns one catalog product.
func ProductDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id := chi.URLParam(r, "productId")
		found, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product.ToDTO(*found))
	}
}

// ProductList returns the catalog, optionally filtered to a comma
// separated ids query. Unknown ids are omitted, not errors.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		rawIDs := strings.TrimSpace(r.URL.Query().Get("ids"))
		if rawIDs == "" {
			listed, err := svc.ListProducts(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, toDTOs(listed))
			return
		}

		var ids []string
		for _, id := range strings.Split(rawIDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		byID, err := svc.GetProductsByIDs(r.Context(), ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]product.ProductDTO, 0, len(byID))
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				out = append(out, product.ToDTO(p))
			}
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductRecommended returns the curated recommendation list.
func ProductRecommended(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		listed, err := svc.GetRecommendedProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDTOs(listed))
	}
}

func toDTOs(listed []product.Product) []product.ProductDTO {
	out := make([]product.ProductDTO, 0, len(listed))
	for _, p := range listed {
		out = append(out, product.ToDTO(p))
	}
	return out
}
