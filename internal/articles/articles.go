package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ArticleDTO exposes article data in API responses.
type ArticleDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateArticleInput carries the creation body.
type CreateArticleInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

// Repository handles article persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

type articlesRepository interface {
	Create(ctx context.Context, article *models.Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
}

// Service exposes article operations. The surface is deliberately small.
type Service interface {
	Create(ctx context.Context, actorID *uuid.UUID, input CreateArticleInput) (*ArticleDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ArticleDTO, error)
}

type service struct {
	repo articlesRepository
}

func NewService(repo articlesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("articles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actorID *uuid.UUID, input CreateArticleInput) (*ArticleDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"title": "is required"})
	}

	article := &models.Article{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slug.Make(title),
		Content:   input.Content,
		CreatedBy: actorID,
	}

	if err := s.repo.Create(ctx, article); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an article with this title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create article")
	}
	return fromModel(article), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ArticleDTO, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load article")
	}
	return fromModel(article), nil
}

func fromModel(m *models.Article) *ArticleDTO {
	return &ArticleDTO{
		ID:        m.ID,
		Title:     m.Title,
		Slug:      m.Slug,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
