// Copyright (c) 2026 Choice Properties. All rights reserved.

package accounts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/respond"
	requestutil "github.com/choiceproperties-source/choice/internal/platform/request"
	"github.com/choiceproperties-source/choice/internal/twofactor"
)

// StepUpChallenger issues and redeems two-factor one-time codes.
//
// Implemented by [twofactor.Store].
type StepUpChallenger interface {
	CreateChallenge(ctx context.Context, subjectID string) (string, error)
	VerifyChallenge(ctx context.Context, subjectID, code string) error
}

// Handler implements the account lifecycle HTTP endpoints.
//
// Handlers parse and echo JSON; every decision lives in the service or in
// the authorization gates wired around these routes.
type Handler struct {
	service    *Service
	challenger StepUpChallenger
	logger     *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service *Service, challenger StepUpChallenger, logger *slog.Logger) *Handler {
	return &Handler{service: service, challenger: challenger, logger: logger}
}

// PublicRoutes returns the unauthenticated account entry points.
//
// # Endpoints
//   - POST /register : Creates a new account (role: renter).
//   - POST /login    : Authenticates and returns a token pair.
//   - POST /refresh  : Rotates a refresh token.
//   - POST /logout   : Revokes the presented refresh token.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	return router
}

// MeRoutes returns the self-service routes. The server wires them behind
// the authentication gate; stepUpGate is the two-factor step-up gate
// protecting the destructive operations for enrolled accounts.
func (handler *Handler) MeRoutes(stepUpGate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.profile)
	router.Patch("/", handler.updateProfile)

	router.Post("/two-factor", handler.enableTwoFactor)
	router.Delete("/two-factor", handler.disableTwoFactor)
	router.Post("/two-factor/challenge", handler.createChallenge)
	router.Post("/two-factor/verify", handler.verifyChallenge)

	router.Group(func(sensitive chi.Router) {
		sensitive.Use(stepUpGate)
		sensitive.Put("/password", handler.changePassword)
		sensitive.Delete("/", handler.deleteAccount)
	})

	return router
}

// AdminRoutes returns the role-management routes. The server wires them
// behind the authentication gate plus an admin-only role gate.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Put("/{id}/role", handler.changeRole)

	return router
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Phone:    input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the token pair plus the public profile.
type loginResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresAt    int64    `json:"refreshTokenExpiresAt"`
	User         *Account `json:"user"`
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: request.RemoteAddr,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.RefreshTokenExpiresAt.Unix(),
		User:         session.Account,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.RefreshSession(request.Context(), input.RefreshToken, request.UserAgent(), request.RemoteAddr)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.RefreshTokenExpiresAt.Unix(),
		User:         session.Account,
	})
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// subject returns the authenticated identity, or writes a 401.
func subject(writer http.ResponseWriter, request *http.Request) *authz.Identity {
	identity := authz.IdentityFrom(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return nil
	}
	return identity
}

func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	identity := subject(writer, request)
	if identity == nil {
		return
	}

	account, err := handler.service.Profile(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	identity := subject(writer, request)
	if identity == nil {
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.UpdateProfile(request.Context(), identity.UserID, UpdateProfileInput{
		FullName: input.FullName,
		Phone:    input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	identity := subject(writer, request)
	if identity == nil {
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), identity.UserID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	identity := subject(writer, request)
	if identity == nil {
		return
	}

	if err := handler.service.DeleteAccount(request.Context(), identity.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) enableTwoFactor(writer http.ResponseWriter, request *http.Request) {
	identity := subject(writer, request)
	if identity == nil {
		return
	}

	if err := handler.service.SetTwoFactor(request.Context(), identity.UserID, true); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"twoFactorEnabled": true})
}

func (handler *Handler) disableTwoFactor(writer http.ResponseWriter, request *http.Request) {
	identity := subject(writer, request)
	if identity == nil {
		return
	}

	if err := handler.service.SetTwoFactor(request.Context(), identity.UserID, false); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"twoFactorEnabled": false})
}

func (handler *Handler) createChallenge(writer http.ResponseWriter, request *http.Request) {
	identity := subject(writer, request)
	if identity == nil {
		return
	}

	code, err := handler.challenger.CreateChallenge(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The code travels to the user over the notification channel, never in
	// this response.
	handler.logger.InfoContext(request.Context(), "two_factor_challenge_issued",
		slog.String("subject_id", identity.UserID),
		slog.Int("code_length", len(code)),
	)

	respond.OK(writer, map[string]string{"status": "challenge_sent"})
}

type verifyChallengeRequest struct {
	Code string `json:"code"`
}

func (handler *Handler) verifyChallenge(writer http.ResponseWriter, request *http.Request) {
	identity := subject(writer, request)
	if identity == nil {
		return
	}

	var input verifyChallengeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.challenger.VerifyChallenge(request.Context(), identity.UserID, input.Code); err != nil {
		if errors.Is(err, twofactor.ErrChallengeInvalid) {
			respond.Error(writer, request, apperr.Unauthorized("Invalid or expired verification code"))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"verified": true})
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// changeRole handles PUT /admin/users/{id}/role. The admin-only gate is
// wired upstream; this handler only validates the target role.
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.ChangeRole(request.Context(), requestutil.ID(request), authz.Role(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}
