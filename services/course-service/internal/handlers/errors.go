package handlers

import (
	"errors"
	"net/http"

	authMiddleware "github.com/courseforge/backend/libs/auth/middleware"
	"github.com/courseforge/backend/libs/handlers"
	"github.com/courseforge/backend/services/course-service/internal/services"
	"go.uber.org/zap"
)

// courseIDParam matches UUIDs and ObjectID hex so static /courses routes never fall through to {id}
const courseIDParam = "{id:[0-9a-fA-F-]+}"

// respondServiceError maps the service error kinds to HTTP statuses.
// Internal details of 5xx failures are logged and never returned to the caller.
func respondServiceError(h *handlers.BaseHandler, w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		h.RespondError(w, http.StatusForbidden, services.ErrForbidden.Error())
	case errors.Is(err, services.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrGenerationParse):
		h.Logger.Error(action, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, services.ErrGenerationParse.Error())
	case errors.Is(err, services.ErrUpstream):
		h.Logger.Error(action, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "external service request failed")
	default:
		h.Logger.Error(action, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requesterID returns the effective caller of a request.
// With a session the session subject wins and a conflicting claimed id is forbidden;
// without one the claimed id from the body or query is used as is.
func requesterID(r *http.Request, claimed string) (string, error) {
	session, ok := authMiddleware.GetSession(r.Context())
	if !ok {
		return claimed, nil
	}
	if claimed != "" && claimed != session.UserID {
		return "", services.ErrForbidden
	}
	return session.UserID, nil
}

// readerID returns the caller of a read-only request.
// The session subject wins over any claimed id; without a session the claimed id is used.
func readerID(r *http.Request, claimed string) string {
	if session, ok := authMiddleware.GetSession(r.Context()); ok {
		return session.UserID
	}
	return claimed
}
