package articles

import (
	"context"
	"testing"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubArticlesRepo struct {
	byID map[uuid.UUID]*models.Article
}

func newStubArticlesRepo() *stubArticlesRepo {
	return &stubArticlesRepo{byID: map[uuid.UUID]*models.Article{}}
}

func (s *stubArticlesRepo) Create(_ context.Context, article *models.Article) error {
	for _, existing := range s.byID {
		if existing.Slug == article.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	s.byID[article.ID] = article
	return nil
}

func (s *stubArticlesRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	if article, ok := s.byID[id]; ok {
		return article, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestCreateSlugsTitle(t *testing.T) {
	svc, err := NewService(newStubArticlesRepo())
	require.NoError(t, err)

	dto, err := svc.Create(context.Background(), nil, CreateArticleInput{
		Title:   "Weekend Market Guide",
		Content: "Everything open this Saturday.",
	})
	require.NoError(t, err)
	require.Equal(t, "weekend-market-guide", dto.Slug)

	loaded, err := svc.Get(context.Background(), dto.ID)
	require.NoError(t, err)
	require.Equal(t, dto.Title, loaded.Title)
}

func TestCreateDuplicateTitleConflicts(t *testing.T) {
	svc, err := NewService(newStubArticlesRepo())
	require.NoError(t, err)

	input := CreateArticleInput{Title: "Weekend Market Guide"}
	_, err = svc.Create(context.Background(), nil, input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), nil, input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, err := NewService(newStubArticlesRepo())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), nil, CreateArticleInput{Title: "   "})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetUnknownArticle(t *testing.T) {
	svc, err := NewService(newStubArticlesRepo())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
