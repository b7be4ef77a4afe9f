// Copyright (c) 2026 Choice Properties. All rights reserved.

package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choiceproperties-source/choice/internal/platform/respond"
	"github.com/choiceproperties-source/choice/pkg/convert"
	"github.com/choiceproperties-source/choice/pkg/query"
)

// Handler serves the security event log to administrators.
type Handler struct {
	recorder *Recorder
}

// NewHandler constructs a Handler.
func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// Routes returns the audit router. The server wires it behind the
// authentication gate plus an admin-only role gate.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.recent)

	return router
}

// recent handles GET /admin/security-events. The optional "limit" query
// parameter caps the page (out-of-range values are clamped) and "kind"
// takes a comma-separated list of event kinds to filter on.
func (handler *Handler) recent(writer http.ResponseWriter, request *http.Request) {
	limit := convert.ToInt(request.URL.Query().Get("limit"))
	kinds := query.StringSlice(request.URL.Query().Get("kind"))

	events, err := handler.recorder.RecentEvents(request.Context(), limit, kinds)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"events": events})
}
