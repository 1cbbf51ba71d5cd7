package handler

import (
	"errors"
	"net/http"

	"snippetnav/internal/domain"
	"snippetnav/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError
	var notFoundErr *domain.ContentsNotFoundError

	switch {
	case errors.As(err, &notFoundErr):
		// Clients reconcile on the code, never on the message
		httputil.RespondErrorWithCode(w, http.StatusNotFound, notFoundErr.Code(), notFoundErr.Error(), map[string]interface{}{
			"missing_ids": nonNil(notFoundErr.MissingIDs),
			"deleted_ids": nonNil(notFoundErr.DeletedIDs),
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// projectRef extracts the project reference from the URL path
func projectRef(w http.ResponseWriter, r *http.Request) (string, bool) {
	ref := r.PathValue("ref")
	if ref == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Project ref is required")
		return "", false
	}
	return ref, true
}
