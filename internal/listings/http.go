// Copyright (c) 2026 Choice Properties. All rights reserved.

package listings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/respond"
	requestutil "github.com/choiceproperties-source/choice/internal/platform/request"
	"github.com/choiceproperties-source/choice/pkg/pagination"
)

// Handler implements the listing HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Gates holds the access-control middleware the server composes around
// the listing routes.
type Gates struct {
	// OptionalAuth attaches an identity when a valid token is presented
	// but lets anonymous requests through. Read routes use it so owners
	// can see their own drafts.
	OptionalAuth func(http.Handler) http.Handler

	// Authenticated rejects requests without a valid identity.
	Authenticated func(http.Handler) http.Handler

	// TenantBlock rejects renter and buyer roles outright.
	TenantBlock func(http.Handler) http.Handler

	// EditPermission admits management roles only.
	EditPermission func(http.Handler) http.Handler

	// Ownership admits the listing's owner or an admin.
	Ownership func(http.Handler) http.Handler
}

// Routes returns the listing router with the gate chain applied: read
// routes behind optional authentication, mutating routes behind the full
// chain, and instance mutations additionally behind the ownership gate.
func (handler *Handler) Routes(gates Gates) chi.Router {
	router := chi.NewRouter()

	router.Group(func(public chi.Router) {
		public.Use(gates.OptionalAuth)
		public.Get("/", handler.list)
		public.Get("/{id}", handler.get)
	})

	router.Group(func(manage chi.Router) {
		manage.Use(gates.Authenticated, gates.TenantBlock, gates.EditPermission)
		manage.Post("/", handler.create)
		manage.Get("/mine", handler.listMine)

		manage.Group(func(instance chi.Router) {
			instance.Use(gates.Ownership)
			instance.Patch("/{id}", handler.update)
			instance.Delete("/{id}", handler.delete)
		})
	})

	return router
}

type listingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PriceCents  int64  `json:"priceCents"`
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
	Type        string `json:"type"`
	Status      string `json:"status"`
}

// list handles GET /properties with optional city/type filters.
//
// Anonymous callers and tenants see active listings only. An owner
// filtering by "mine=1" would use /properties/mine instead; here the
// status filter is forced to active for everyone.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		City:   request.URL.Query().Get("city"),
		Type:   ListingType(request.URL.Query().Get("type")),
		Status: StatusActive,
	}

	results, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, results, pagination.NewMeta(params.Page, params.Limit, total))
}

// get handles GET /properties/{id}, accepting a UUID or a slug.
//
// Draft and archived listings are visible to their owner and admins only;
// for everyone else they read as missing rather than forbidden, so the
// identifier leaks nothing.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	listing, err := handler.service.Get(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if listing.Status != StatusActive {
		identity := authz.IdentityFrom(request.Context())
		isPrivileged := identity != nil && (identity.IsAdmin() || identity.UserID == listing.OwnerID)
		if !isPrivileged {
			respond.Error(writer, request, apperr.NotFound("Property"))
			return
		}
	}

	respond.OK(writer, listing)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	identity := authz.IdentityFrom(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	var input listingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing, err := handler.service.Create(request.Context(), identity.UserID, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		City:        input.City,
		PriceCents:  input.PriceCents,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Type:        ListingType(input.Type),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, listing)
}

// listMine handles GET /properties/mine: the caller's own listings in any
// status.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	identity := authz.IdentityFrom(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	params := pagination.FromRequest(request)

	results, total, err := handler.service.List(request.Context(), Filter{OwnerID: identity.UserID}, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, results, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input listingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing, err := handler.service.Update(request.Context(), requestutil.ID(request), UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		City:        input.City,
		PriceCents:  input.PriceCents,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Type:        ListingType(input.Type),
		Status:      Status(input.Status),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listing)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
