// Copyright (c) 2026 Choice Properties. All rights reserved.

package inquiries

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/respond"
	requestutil "github.com/choiceproperties-source/choice/internal/platform/request"
	"github.com/choiceproperties-source/choice/pkg/pagination"
)

// Handler implements the inquiry HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Gates holds the access-control middleware the server composes around
// the inquiry routes.
type Gates struct {
	// Authenticated rejects requests without a valid identity.
	Authenticated func(http.Handler) http.Handler

	// Ownership admits the handling agent (agent column) or an admin.
	Ownership func(http.Handler) http.Handler
}

// Routes returns the inquiry router: submission is public, the agent-side
// routes sit behind authentication, and instance routes additionally
// behind the inquiry ownership gate.
func (handler *Handler) Routes(gates Gates) chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.submit)

	router.Group(func(agent chi.Router) {
		agent.Use(gates.Authenticated)
		agent.Get("/mine", handler.listMine)

		agent.Group(func(instance chi.Router) {
			instance.Use(gates.Ownership)
			instance.Get("/{id}", handler.get)
			instance.Put("/{id}/status", handler.setStatus)
		})
	})

	return router
}

type submitRequest struct {
	PropertyID string `json:"propertyId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
}

func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var input submitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	inquiry, err := handler.service.Submit(request.Context(), SubmitInput{
		PropertyID: input.PropertyID,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Message:    input.Message,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, inquiry)
}

func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	identity := authz.IdentityFrom(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	params := pagination.FromRequest(request)

	results, total, err := handler.service.ListMine(request.Context(), identity.UserID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, results, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	inquiry, err := handler.service.Get(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, inquiry)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	inquiry, err := handler.service.SetStatus(request.Context(), requestutil.ID(request), Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, inquiry)
}
