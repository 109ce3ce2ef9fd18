package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/auth"
	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u entities.User) error
	UserByEmail(ctx context.Context, email string) (entities.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type registerInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type loginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type authService struct {
	logger   *slog.Logger
	validate *validator.Validate
	users    UserRepo
	hasher   PasswordHasher
	tokens   TokenIssuer
}

func NewAuthService(logger *slog.Logger, users UserRepo, hasher PasswordHasher, tokens TokenIssuer) *authService {
	return &authService{
		logger:   logger.With(slog.String("service", "auth")),
		validate: validator.New(),
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (entities.User, error) {
	in := registerInput{
		Name:     strings.TrimSpace(name),
		Email:    normalizeEmail(email),
		Password: password,
	}
	if err := s.validate.Struct(in); err != nil {
		return entities.User{}, toValidationError(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return entities.User{}, err
	}

	user := entities.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, entities.ErrUserExists) {
			return entities.User{}, err
		}
		return entities.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Debug("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login проверяет пароль и выдаёт токен. Неизвестный email и неверный
// пароль возвращают одну и ту же ошибку.
func (s *authService) Login(ctx context.Context, email, password string) (string, entities.User, error) {
	in := loginInput{Email: normalizeEmail(email), Password: password}
	if err := s.validate.Struct(in); err != nil {
		return "", entities.User{}, toValidationError(err)
	}

	user, err := s.users.UserByEmail(ctx, in.Email)
	if errors.Is(err, entities.ErrUserNotFound) {
		return "", entities.User{}, entities.ErrInvalidCredentials
	}
	if err != nil {
		return "", entities.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, in.Password)
	if err != nil {
		return "", entities.User{}, fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		return "", entities.User{}, entities.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", entities.User{}, err
	}
	return token, user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
