package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	auditlogsvc "github.com/stockroomhq/stockroom-backend/internal/auditlog"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// ListLogs returns the caller's audit trail. Staff see every owner's logs.
func ListLogs(svc auditlogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit log service unavailable"))
			return
		}

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

		ordering, err := auditlogsvc.ParseOrdering(strings.TrimSpace(r.URL.Query().Get("ordering")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := logFiltersFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListLogs(r.Context(), principal, auditlogsvc.ListLogsInput{
			Pagination: params,
			Filters:    filters,
			Ordering:   ordering,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ListItemLogs(svc auditlogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListItemLogs(r.Context(), principal, itemID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func logFiltersFrom(r *http.Request) (auditlogsvc.LogFilters, error) {
	query := r.URL.Query()
	filters := auditlogsvc.LogFilters{}

	if raw := strings.TrimSpace(query.Get("item_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return auditlogsvc.LogFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item_id filter")
		}
		filters.ItemID = &id
	}
	if raw := strings.TrimSpace(query.Get("user_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return auditlogsvc.LogFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id filter")
		}
		filters.UserID = &id
	}
	if raw := strings.TrimSpace(query.Get("action")); raw != "" {
		action, err := enums.ParseLogAction(raw)
		if err != nil {
			return auditlogsvc.LogFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action filter")
		}
		filters.Action = &action
	}

	return filters, nil
}
