package users

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dealboard/dealboard-backend/internal/audit"
	"github.com/dealboard/dealboard-backend/pkg/config"
	"github.com/dealboard/dealboard-backend/pkg/db/models"
	"github.com/dealboard/dealboard-backend/pkg/enums"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/dealboard/dealboard-backend/pkg/security"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type usersRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (int64, error)
	UpdateImage(ctx context.Context, id uuid.UUID, image models.Image) error
	List(ctx context.Context, params pagination.Params) ([]models.User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// FileRemover unlinks stored assets during delete cascades. Tests swap it out.
type FileRemover interface {
	Remove(rel string) error
}

// Service exposes user operations.
type Service interface {
	Create(ctx context.Context, actorID *uuid.UUID, input CreateUserInput) (*UserDTO, string, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, params pagination.Params) (pagination.Page[UserDTO], error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	ChangeName(ctx context.Context, id uuid.UUID, input ChangeNameInput) (*UserDTO, error)
	ChangePassword(ctx context.Context, id uuid.UUID, input ChangePasswordInput) error
	Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (*UserDTO, error)
	GetImage(ctx context.Context, id uuid.UUID) (models.Image, error)
	Roles() []enums.UserRole
}

type service struct {
	repo        usersRepository
	passwordCfg config.PasswordConfig
	files       FileRemover
	auditor     *audit.Recorder
	logg        *logger.Logger
}

// NewService builds a user service.
func NewService(repo usersRepository, passwordCfg config.PasswordConfig, files FileRemover, auditor *audit.Recorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if files == nil {
		return nil, fmt.Errorf("file remover required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg, files: files, auditor: auditor, logg: logg}, nil
}

// OSFileRemover deletes files beneath the public root.
type OSFileRemover struct {
	Abs func(rel string) string
}

func (o OSFileRemover) Remove(rel string) error {
	err := os.Remove(o.Abs(rel))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// Create provisions a user with a generated temporary password. The password
// is returned to the admin caller exactly once and never stored in plain form.
func (s *service) Create(ctx context.Context, actorID *uuid.UUID, input CreateUserInput) (*UserDTO, string, error) {
	role, err := enums.ParseUserRole(input.Role)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
			WithDetails(map[string]any{"role": input.Role})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "a user with this email already exists")
	}

	tempPassword, err := security.GenerateTempPassword(16)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		FullName:     fullName(input.FirstName, input.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedBy:    actorID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "a user with this email already exists")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	s.auditor.Record(ctx, actorID, "user.create", "users", &user.ID, nil, FromModel(user))
	return FromModel(user), tempPassword, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[UserDTO], error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[UserDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	docs := make([]UserDTO, 0, len(rows))
	for i := range rows {
		docs = append(docs, *FromModel(&rows[i]))
	}
	return pagination.NewPage(docs, total, params), nil
}

// Update applies profile changes. Self-edits may not change role; only a
// super-user can.
func (s *service) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	if actorID != id && actorRole != enums.UserRoleSuper {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another user")
	}

	before, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	first, last := before.FirstName, before.LastName

	if input.FirstName != nil && strings.TrimSpace(*input.FirstName) != "" {
		first = strings.TrimSpace(*input.FirstName)
		fields["first_name"] = first
	}
	if input.LastName != nil && strings.TrimSpace(*input.LastName) != "" {
		last = strings.TrimSpace(*input.LastName)
		fields["last_name"] = last
	}
	if len(fields) > 0 {
		fields["full_name"] = fullName(first, last)
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		fields["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Role != nil {
		if actorRole != enums.UserRoleSuper {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only a super-user can change roles")
		}
		role, err := enums.ParseUserRole(*input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
				WithDetails(map[string]any{"role": *input.Role})
		}
		fields["role"] = role
	}

	rows, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		if isDuplicate(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a user with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
	}

	after, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, &actorID, "user.update", "users", &id, FromModel(before), FromModel(after))
	return FromModel(after), nil
}

func (s *service) ChangeName(ctx context.Context, id uuid.UUID, input ChangeNameInput) (*UserDTO, error) {
	fields := map[string]any{
		"first_name": strings.TrimSpace(input.FirstName),
		"last_name":  strings.TrimSpace(input.LastName),
		"full_name":  fullName(input.FirstName, input.LastName),
	}

	rows, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "change name")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
	}
	return s.Get(ctx, id)
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, input ChangePasswordInput) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	rows, err := s.repo.UpdateFields(ctx, id, map[string]any{"password_hash": hash})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "change password")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
	}
	return nil
}

// Delete removes the user and unlinks every stored upload path. Placeholder
// assets outside the uploads tree are untouched; unlink errors are joined and
// reported after the row is gone.
func (s *service) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotModified, "no records were modified")
	}

	var fileErr error
	for _, rel := range user.Image.UploadPaths() {
		fileErr = multierr.Append(fileErr, s.files.Remove(rel))
	}
	if fileErr != nil && s.logg != nil {
		s.logg.Error(s.logg.WithUserID(ctx, id.String()), "user.delete.file_cleanup", fileErr)
	}

	s.auditor.Record(ctx, actorID, "user.delete", "users", &id, FromModel(user), nil)
	return FromModel(user), nil
}

func (s *service) GetImage(ctx context.Context, id uuid.UUID) (models.Image, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return models.Image{}, err
	}
	return user.Image, nil
}

func (s *service) Roles() []enums.UserRole {
	return enums.UserRoles()
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
