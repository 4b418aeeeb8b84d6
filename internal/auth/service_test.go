package auth

import (
	"context"
	"testing"

	pkgauth "github.com/dealboard/dealboard-backend/pkg/auth"
	"github.com/dealboard/dealboard-backend/pkg/config"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/dealboard/dealboard-backend/pkg/enums"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserFinder struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func (s *stubUserFinder) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserFinder) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "dealboard-test",
	ExpirationMinutes: 30,
}

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func newAuthFixture(t *testing.T, password string) (Service, *models.User) {
	t.Helper()

	hash, err := security.HashPassword(password, testPasswordCfg)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		FirstName:    "Dana",
		LastName:     "Reyes",
		FullName:     "Dana Reyes",
		Email:        "dana@example.com",
		PasswordHash: hash,
		Role:         enums.UserRoleAdmin,
	}

	finder := &stubUserFinder{
		byEmail: map[string]*models.User{user.Email: user},
		byID:    map[uuid.UUID]*models.User{user.ID: user},
	}
	svc, err := NewService(finder, testJWTCfg)
	require.NoError(t, err)
	return svc, user
}

func TestLoginMintsParsableToken(t *testing.T) {
	svc, user := newAuthFixture(t, "correct horse battery")

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "Dana@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, result.User.ID)

	claims, err := pkgauth.ParseAccessToken(testJWTCfg, result.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, enums.UserRoleAdmin, claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthFixture(t, "correct horse battery")

	_, unknownErr := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	_, wrongErr := svc.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "not the password",
	})

	for _, err := range []error{unknownErr, wrongErr} {
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		require.Equal(t, "invalid credentials", typed.Message())
	}
}

func TestMeReturnsPrincipal(t *testing.T) {
	svc, user := newAuthFixture(t, "correct horse battery")

	dto, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "Dana Reyes", dto.FullName)

	_, err = svc.Me(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
