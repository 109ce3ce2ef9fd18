package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/SergeyBogomolovv/storefront-service/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (entities.User, error)
	Login(ctx context.Context, email, password string) (string, entities.User, error)
}

type AuthHandler struct {
	logger *slog.Logger
	svc    AuthService
}

func NewAuthHandler(logger *slog.Logger, svc AuthService) *AuthHandler {
	return &AuthHandler{
		logger: logger.With(slog.String("handler", "auth")),
		svc:    svc,
	}
}

func (h *AuthHandler) Init(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
}

// Register
// @Summary      Регистрация
// @Tags         auth
// @Accept       json
// @Param        user  body      RegisterRequest  true  "Данные пользователя"
// @Success      201  {object}  User
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      409  {object}  utils.ErrorResponse "Email уже занят"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(ctx, req.Name, req.Email, req.Password)
	var ve *entities.ValidationError
	switch {
	case err == nil:
		utils.WriteJSON(w, UserEntityToJSON(user), http.StatusCreated)
	case errors.As(err, &ve):
		utils.WriteValidationFields(w, ve.Fields)
	case errors.Is(err, entities.ErrUserExists):
		utils.WriteError(w, "user already exists", http.StatusConflict)
	default:
		h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

// Login
// @Summary      Вход
// @Tags         auth
// @Accept       json
// @Param        credentials  body      LoginRequest  true  "Email и пароль"
// @Success      200  {object}  LoginResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      401  {object}  utils.ErrorResponse "Неверные данные"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, user, err := h.svc.Login(ctx, req.Email, req.Password)
	var ve *entities.ValidationError
	switch {
	case err == nil:
		utils.WriteJSON(w, LoginResponse{Token: token, User: UserEntityToJSON(user)}, http.StatusOK)
	case errors.As(err, &ve):
		utils.WriteValidationFields(w, ve.Fields)
	case errors.Is(err, entities.ErrInvalidCredentials):
		utils.WriteError(w, "invalid credentials", http.StatusUnauthorized)
	default:
		h.logger.ErrorContext(ctx, "failed to login", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
