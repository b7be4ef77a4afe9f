// Copyright (c) 2026 Choice Properties. All rights reserved.

package applications

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/respond"
	requestutil "github.com/choiceproperties-source/choice/internal/platform/request"
	"github.com/choiceproperties-source/choice/pkg/pagination"
	"github.com/choiceproperties-source/choice/pkg/slice"
)

// Handler implements the application HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Gates holds the access-control middleware the server composes around
// the application routes.
type Gates struct {
	// OptionalAuth lets anonymous applicants through while linking a
	// logged-in applicant's submission to their account.
	OptionalAuth func(http.Handler) http.Handler

	// Authenticated rejects requests without a valid identity.
	Authenticated func(http.Handler) http.Handler

	// ReviewPermission admits roles allowed to decide applications.
	ReviewPermission func(http.Handler) http.Handler

	// Ownership admits the applicant who owns the record or an admin.
	Ownership func(http.Handler) http.Handler
}

// Routes returns the application router with the gate chain applied.
//
// # Endpoints
//   - POST /                   : submit (anonymous allowed).
//   - GET /mine                : the caller's own applications.
//   - GET /{id}, DELETE /{id}  : instance reads and withdrawal, owner-gated.
//   - GET /by-property/{id}    : applications against one property, reviewer-gated.
//   - PUT /{id}/decision       : approve or reject, reviewer-gated.
func (handler *Handler) Routes(gates Gates) chi.Router {
	router := chi.NewRouter()

	router.Group(func(public chi.Router) {
		public.Use(gates.OptionalAuth)
		public.Post("/", handler.submit)
	})

	router.Group(func(applicant chi.Router) {
		applicant.Use(gates.Authenticated)
		applicant.Get("/mine", handler.listMine)

		applicant.Group(func(instance chi.Router) {
			instance.Use(gates.Ownership)
			instance.Get("/{id}", handler.get)
			instance.Delete("/{id}", handler.withdraw)
		})

		applicant.Group(func(review chi.Router) {
			review.Use(gates.ReviewPermission)
			review.Get("/by-property/{id}", handler.listForProperty)
			review.Put("/{id}/decision", handler.decide)
		})
	})

	return router
}

type submitRequest struct {
	PropertyID         string `json:"propertyId"`
	FullName           string `json:"fullName"`
	Email              string `json:"email"`
	MonthlyIncomeCents int64  `json:"monthlyIncomeCents"`
	Message            string `json:"message"`
}

func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var input submitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	subjectID := ""
	if identity := authz.IdentityFrom(request.Context()); identity != nil {
		subjectID = identity.UserID
	}

	application, err := handler.service.Submit(request.Context(), SubmitInput{
		PropertyID:         input.PropertyID,
		SubjectID:          subjectID,
		FullName:           input.FullName,
		Email:              input.Email,
		MonthlyIncomeCents: input.MonthlyIncomeCents,
		Message:            input.Message,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, application)
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

// get serves one application. The ownership gate upstream guarantees the
// caller is the applicant or an admin, so nothing is redacted here.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	application, err := handler.service.Get(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, application)
}

func (handler *Handler) withdraw(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Withdraw(request.Context(), requestutil.ID(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// listForProperty serves the applications against one listing to the
// reviewing side. Income and contact details are redacted for roles
// without the sensitive-data capability.
func (handler *Handler) listForProperty(writer http.ResponseWriter, request *http.Request) {
	identity := authz.IdentityFrom(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	params := pagination.FromRequest(request)

	results, total, err := handler.service.ListForProperty(request.Context(), requestutil.ID(request), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !authz.CanAccessSensitiveData(identity.Role) {
		results = slice.Map(results, (*Application).Redacted)
	}

	respond.Paginated(writer, results, pagination.NewMeta(params.Page, params.Limit, total))
}

type decisionRequest struct {
	Status string `json:"status"`
}

func (handler *Handler) decide(writer http.ResponseWriter, request *http.Request) {
	identity := authz.IdentityFrom(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	var input decisionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	application, err := handler.service.Decide(request.Context(), requestutil.ID(request), Status(input.Status), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, application)
}
