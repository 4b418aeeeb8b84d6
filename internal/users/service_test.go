package users

import (
	"context"
	"testing"

	"github.com/dealboard/dealboard-backend/pkg/config"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/dealboard/dealboard-backend/pkg/enums"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/dealboard/dealboard-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUsersRepo struct {
	byID       map[uuid.UUID]*models.User
	byEmail    map[string]*models.User
	updateRows int64
	updated    map[string]any
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{
		byID:       map[uuid.UUID]*models.User{},
		byEmail:    map[string]*models.User{},
		updateRows: 1,
	}
}

func (s *stubUsersRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := s.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

func (s *stubUsersRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) (int64, error) {
	s.updated = fields
	if _, ok := s.byID[id]; !ok {
		return 0, nil
	}
	if hash, ok := fields["password_hash"].(string); ok {
		s.byID[id].PasswordHash = hash
	}
	return s.updateRows, nil
}

func (s *stubUsersRepo) UpdateImage(_ context.Context, id uuid.UUID, image models.Image) error {
	if u, ok := s.byID[id]; ok {
		u.Image = image
	}
	return nil
}

func (s *stubUsersRepo) List(_ context.Context, _ pagination.Params) ([]models.User, int64, error) {
	var rows []models.User
	for _, u := range s.byID {
		rows = append(rows, *u)
	}
	return rows, int64(len(rows)), nil
}

func (s *stubUsersRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := s.byID[id]; !ok {
		return 0, nil
	}
	delete(s.byID, id)
	return 1, nil
}

type recordingRemover struct {
	removed []string
	err     error
}

func (r *recordingRemover) Remove(rel string) error {
	r.removed = append(r.removed, rel)
	return r.err
}

func testPasswordCfg() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newUsersService(t *testing.T) (Service, *stubUsersRepo, *recordingRemover) {
	t.Helper()
	repo := newStubUsersRepo()
	remover := &recordingRemover{}
	svc, err := NewService(repo, testPasswordCfg(), remover, nil, nil)
	require.NoError(t, err)
	return svc, repo, remover
}

func TestCreateReturnsTempPasswordOnce(t *testing.T) {
	svc, repo, _ := newUsersService(t)

	dto, temp, err := svc.Create(context.Background(), nil, CreateUserInput{
		FirstName: "Dana",
		LastName:  "Reyes",
		Email:     "Dana.Reyes@Example.com",
		Role:      "administrator",
	})
	require.NoError(t, err)
	require.NotEmpty(t, temp)
	require.Equal(t, "dana.reyes@example.com", dto.Email)
	require.Equal(t, "Dana Reyes", dto.FullName)
	require.Equal(t, enums.UserRoleAdmin, dto.Role)

	stored := repo.byID[dto.ID]
	require.NotEqual(t, temp, stored.PasswordHash)

	ok, err := security.VerifyPassword(temp, stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newUsersService(t)

	_, _, err := svc.Create(context.Background(), nil, CreateUserInput{
		FirstName: "A", LastName: "B", Email: "a@b.co", Role: "root",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateDuplicateEmailIsConflict(t *testing.T) {
	svc, _, _ := newUsersService(t)

	input := CreateUserInput{FirstName: "A", LastName: "B", Email: "a@b.co", Role: "basic"}
	_, _, err := svc.Create(context.Background(), nil, input)
	require.NoError(t, err)

	_, _, err = svc.Create(context.Background(), nil, input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateForbidsEditingOthersWithoutSuperRole(t *testing.T) {
	svc, _, _ := newUsersService(t)

	_, err := svc.Update(context.Background(), uuid.New(), enums.UserRoleBasic, uuid.New(), UpdateUserInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestUpdateRoleRequiresSuperUser(t *testing.T) {
	svc, _, _ := newUsersService(t)

	dto, _, err := svc.Create(context.Background(), nil, CreateUserInput{
		FirstName: "A", LastName: "B", Email: "a@b.co", Role: "basic",
	})
	require.NoError(t, err)

	role := "administrator"
	_, err = svc.Update(context.Background(), dto.ID, enums.UserRoleBasic, dto.ID, UpdateUserInput{Role: &role})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestUpdateZeroRowsIsNotModified(t *testing.T) {
	svc, repo, _ := newUsersService(t)

	dto, _, err := svc.Create(context.Background(), nil, CreateUserInput{
		FirstName: "A", LastName: "B", Email: "a@b.co", Role: "basic",
	})
	require.NoError(t, err)

	repo.updateRows = 0
	name := "New"
	_, err = svc.Update(context.Background(), dto.ID, enums.UserRoleSuper, dto.ID, UpdateUserInput{FirstName: &name})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotModified, typed.Code())
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	svc, _, _ := newUsersService(t)

	dto, temp, err := svc.Create(context.Background(), nil, CreateUserInput{
		FirstName: "A", LastName: "B", Email: "a@b.co", Role: "basic",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), dto.ID, ChangePasswordInput{
		CurrentPassword: "wrong-password",
		NewPassword:     "brand-new-secret",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())

	require.NoError(t, svc.ChangePassword(context.Background(), dto.ID, ChangePasswordInput{
		CurrentPassword: temp,
		NewPassword:     "brand-new-secret",
	}))
}

func TestDeleteUnlinksUploadPathsOnly(t *testing.T) {
	svc, repo, remover := newUsersService(t)

	dto, _, err := svc.Create(context.Background(), nil, CreateUserInput{
		FirstName: "A", LastName: "B", Email: "a@b.co", Role: "basic",
	})
	require.NoError(t, err)

	repo.byID[dto.ID].Image = models.Image{
		Original:  "uploads/avatars/original/a-b-1.jpg",
		Thumbnail: "/assets/images/users/placeholder.png",
		Cropped:   "uploads/avatars/cropped/a-b-1.jpg",
	}

	removed, err := svc.Delete(context.Background(), nil, dto.ID)
	require.NoError(t, err)
	require.Equal(t, dto.ID, removed.ID)

	require.ElementsMatch(t, []string{
		"uploads/avatars/original/a-b-1.jpg",
		"uploads/avatars/cropped/a-b-1.jpg",
	}, remover.removed)
}

func TestDeleteUnknownUserIsNotFound(t *testing.T) {
	svc, _, _ := newUsersService(t)

	_, err := svc.Delete(context.Background(), nil, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRolesListsAllRoles(t *testing.T) {
	svc, _, _ := newUsersService(t)
	require.ElementsMatch(t, []enums.UserRole{
		enums.UserRoleSuper, enums.UserRoleAdmin, enums.UserRoleBasic,
	}, svc.Roles())
}

func TestOwnerAccessorSeedIsFullName(t *testing.T) {
	repo := newStubUsersRepo()
	user := &models.User{ID: uuid.New(), FullName: "Dana Reyes"}
	repo.byID[user.ID] = user

	accessor := NewOwnerAccessor(repo)
	owner, err := accessor.Load(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "Dana Reyes", owner.Seed)

	img := models.Image{Original: "uploads/x/original/y.jpg"}
	require.NoError(t, accessor.Save(context.Background(), user.ID, img))
	require.Equal(t, img, repo.byID[user.ID].Image)
}
