package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/api/validators"
	inventorysvc "github.com/stockroomhq/stockroom-backend/internal/inventory"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

type createItemRequest struct {
	Name              string          `json:"name" validate:"required,max=200"`
	Description       *string         `json:"description,omitempty"`
	Quantity          int             `json:"quantity" validate:"min=0"`
	Price             decimal.Decimal `json:"price"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	SKU               *string         `json:"sku,omitempty" validate:"omitempty,max=64"`
	Location          *string         `json:"location,omitempty" validate:"omitempty,max=200"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	Notes             *string         `json:"notes,omitempty"`
}

type updateItemRequest struct {
	Name              *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description,omitempty"`
	Quantity          *int             `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	CategoryID        *uuid.UUID       `json:"category_id,omitempty"`
	ClearCategory     bool             `json:"clear_category,omitempty"`
	SKU               *string          `json:"sku,omitempty" validate:"omitempty,max=64"`
	Location          *string          `json:"location,omitempty" validate:"omitempty,max=200"`
	LowStockThreshold *int             `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
}

type adjustQuantityRequest struct {
	Delta int     `json:"delta" validate:"required"`
	Notes *string `json:"notes,omitempty"`
}

func CreateItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), principal, inventorysvc.CreateItemInput{
			Name:              payload.Name,
			Description:       payload.Description,
			Quantity:          payload.Quantity,
			Price:             payload.Price,
			CategoryID:        payload.CategoryID,
			SKU:               payload.SKU,
			Location:          payload.Location,
			LowStockThreshold: payload.LowStockThreshold,
			Notes:             payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ListItems supports filtering by category, location, price range, stock
// ceiling, and free-text search alongside cursor pagination.
func ListItems(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := itemFiltersFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListItems(r.Context(), principal, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func GetItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), principal, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func UpdateItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), principal, id, inventorysvc.UpdateItemInput{
			Name:              payload.Name,
			Description:       payload.Description,
			Quantity:          payload.Quantity,
			Price:             payload.Price,
			CategoryID:        payload.CategoryID,
			ClearCategory:     payload.ClearCategory,
			SKU:               payload.SKU,
			Location:          payload.Location,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// AdjustItemQuantity applies a signed delta and returns the item plus the
// audit log entry written for the change.
func AdjustItemQuantity(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdjustQuantity(r.Context(), principal, id, inventorysvc.AdjustInput{
			Delta: payload.Delta,
			Notes: payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DeleteItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), principal, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func StockLevelReport(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.StockLevelReport(r.Context(), principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ItemStockLevel(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.ItemStockLevel(r.Context(), principal, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func LowStockItems(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.LowStockItems(r.Context(), principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func itemFiltersFrom(r *http.Request) (inventorysvc.ItemListFilters, error) {
	query := r.URL.Query()
	filters := inventorysvc.ItemListFilters{
		Category: strings.TrimSpace(query.Get("category")),
		Query:    strings.TrimSpace(query.Get("q")),
	}
	if location := strings.TrimSpace(query.Get("location")); location != "" {
		filters.Location = &location
	}

	minPrice, err := queryDecimal(query.Get("min_price"), "min_price")
	if err != nil {
		return inventorysvc.ItemListFilters{}, err
	}
	filters.MinPrice = minPrice

	maxPrice, err := queryDecimal(query.Get("max_price"), "max_price")
	if err != nil {
		return inventorysvc.ItemListFilters{}, err
	}
	filters.MaxPrice = maxPrice

	if raw := strings.TrimSpace(query.Get("low_stock")); raw != "" {
		ceiling, err := strconv.Atoi(raw)
		if err != nil || ceiling < 0 {
			return inventorysvc.ItemListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "low_stock must be a non-negative integer")
		}
		filters.LowStock = &ceiling
	}

	return filters, nil
}

func queryDecimal(raw, field string) (*decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price filter").
			WithDetails(map[string]any{"field": field})
	}
	return &value, nil
}
