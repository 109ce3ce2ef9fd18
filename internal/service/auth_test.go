package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/auth"
	"github.com/SergeyBogomolovv/storefront-service/internal/entities"
	"github.com/SergeyBogomolovv/storefront-service/internal/service"
	mocks "github.com/SergeyBogomolovv/storefront-service/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-0123456789"

func TestAuthService_Register(t *testing.T) {
	type MockBehavior func(users *mocks.MockUserRepo)

	testCases := []struct {
		name         string
		userName     string
		email        string
		password     string
		mockBehavior MockBehavior
		wantErr      error
		wantFields   []string
	}{
		{
			name:     "OK",
			userName: " Jane ",
			email:    " Jane@Example.com ",
			password: "secret1",
			mockBehavior: func(users *mocks.MockUserRepo) {
				users.EXPECT().
					CreateUser(mock.Anything, mock.MatchedBy(func(u entities.User) bool {
						return u.ID != "" && u.Name == "Jane" && u.Email == "jane@example.com" &&
							u.PasswordHash != "" && u.PasswordHash != "secret1"
					})).
					Return(nil).Once()
			},
		},
		{
			name:     "duplicate email",
			userName: "Jane",
			email:    "jane@example.com",
			password: "secret1",
			mockBehavior: func(users *mocks.MockUserRepo) {
				users.EXPECT().CreateUser(mock.Anything, mock.Anything).Return(entities.ErrUserExists).Once()
			},
			wantErr: entities.ErrUserExists,
		},
		{
			name:     "repo error",
			userName: "Jane",
			email:    "jane@example.com",
			password: "secret1",
			mockBehavior: func(users *mocks.MockUserRepo) {
				users.EXPECT().CreateUser(mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
			},
			wantErr: errors.New("failed to create user: db down"),
		},
		{
			name:         "invalid input",
			userName:     "",
			email:        "not-an-email",
			password:     "12345",
			mockBehavior: func(_ *mocks.MockUserRepo) {},
			wantErr:      entities.ErrValidation,
			wantFields:   []string{"Name", "Email", "Password"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			users := mocks.NewMockUserRepo(t)
			tc.mockBehavior(users)

			hasher := auth.NewPasswordHasher(bcrypt.MinCost)
			tokens := auth.NewTokenManager(testSecret, time.Hour)
			svc := service.NewAuthService(newLogger(), users, hasher, tokens)

			got, err := svc.Register(context.Background(), tc.userName, tc.email, tc.password)
			if tc.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tc.wantErr, entities.ErrValidation) || errors.Is(tc.wantErr, entities.ErrUserExists) {
					assert.ErrorIs(t, err, tc.wantErr)
				} else {
					assert.EqualError(t, err, tc.wantErr.Error())
				}

				var ve *entities.ValidationError
				if errors.As(err, &ve) {
					for _, f := range tc.wantFields {
						assert.Contains(t, ve.Fields, f)
					}
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Jane", got.Name)
			assert.Equal(t, "jane@example.com", got.Email)

			ok, err := hasher.Compare(got.PasswordHash, tc.password)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.NewPasswordHasher(bcrypt.MinCost).Hash("secret1")
	require.NoError(t, err)

	user := entities.User{ID: "user-1", Name: "Jane", Email: "jane@example.com", PasswordHash: hash}

	type MockBehavior func(users *mocks.MockUserRepo)

	testCases := []struct {
		name         string
		email        string
		password     string
		mockBehavior MockBehavior
		wantErr      error
	}{
		{
			name:     "OK",
			email:    "JANE@example.com",
			password: "secret1",
			mockBehavior: func(users *mocks.MockUserRepo) {
				users.EXPECT().UserByEmail(mock.Anything, "jane@example.com").Return(user, nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "jane@example.com",
			password: "wrong-password",
			mockBehavior: func(users *mocks.MockUserRepo) {
				users.EXPECT().UserByEmail(mock.Anything, "jane@example.com").Return(user, nil).Once()
			},
			wantErr: entities.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "secret1",
			mockBehavior: func(users *mocks.MockUserRepo) {
				users.EXPECT().UserByEmail(mock.Anything, "nobody@example.com").
					Return(entities.User{}, entities.ErrUserNotFound).Once()
			},
			wantErr: entities.ErrInvalidCredentials,
		},
		{
			name:         "empty password",
			email:        "jane@example.com",
			password:     "",
			mockBehavior: func(_ *mocks.MockUserRepo) {},
			wantErr:      entities.ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			users := mocks.NewMockUserRepo(t)
			tc.mockBehavior(users)

			hasher := auth.NewPasswordHasher(bcrypt.MinCost)
			tokens := auth.NewTokenManager(testSecret, time.Hour)
			svc := service.NewAuthService(newLogger(), users, hasher, tokens)

			token, got, err := svc.Login(context.Background(), tc.email, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user, got)

			id, err := tokens.Parse(token)
			require.NoError(t, err)
			assert.Equal(t, auth.Identity{UserID: "user-1", Email: "jane@example.com"}, id)
		})
	}
}
