package promotions

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dealboard/dealboard-backend/pkg/db/models"
	pkgerrors "github.com/dealboard/dealboard-backend/pkg/errors"
	"github.com/dealboard/dealboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubPromotionsRepo struct {
	byID       map[uuid.UUID]*models.Promotion
	tags       map[string]models.Tag
	updateRows int64
	replaced   []models.Tag
}

func newStubPromotionsRepo() *stubPromotionsRepo {
	return &stubPromotionsRepo{
		byID:       map[uuid.UUID]*models.Promotion{},
		tags:       map[string]models.Tag{},
		updateRows: 1,
	}
}

func (s *stubPromotionsRepo) Create(_ context.Context, p *models.Promotion) error {
	for _, existing := range s.byID {
		if existing.SellerID == p.SellerID && existing.Slug == p.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	s.byID[p.ID] = p
	return nil
}

func (s *stubPromotionsRepo) UpsertTags(_ context.Context, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		tag, ok := s.tags[name]
		if !ok {
			tag = models.Tag{ID: uuid.New(), Name: name}
			s.tags[name] = tag
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *stubPromotionsRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Promotion, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPromotionsRepo) FindBySellerAndSlug(_ context.Context, sellerID uuid.UUID, slug string) (*models.Promotion, error) {
	for _, p := range s.byID {
		if p.SellerID == sellerID && p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPromotionsRepo) UpdateFields(_ context.Context, id uuid.UUID, _ map[string]any) (int64, error) {
	if _, ok := s.byID[id]; !ok {
		return 0, nil
	}
	return s.updateRows, nil
}

func (s *stubPromotionsRepo) ReplaceTags(_ context.Context, p *models.Promotion, tags []models.Tag) error {
	s.replaced = tags
	p.Tags = tags
	return nil
}

func (s *stubPromotionsRepo) UpdateImage(_ context.Context, id uuid.UUID, image models.Image) error {
	if p, ok := s.byID[id]; ok {
		p.Image = image
	}
	return nil
}

func (s *stubPromotionsRepo) List(_ context.Context, sellerID *uuid.UUID, _ pagination.Params) ([]models.Promotion, int64, error) {
	var rows []models.Promotion
	for _, p := range s.byID {
		if sellerID != nil && p.SellerID != *sellerID {
			continue
		}
		rows = append(rows, *p)
	}
	return rows, int64(len(rows)), nil
}

func (s *stubPromotionsRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := s.byID[id]; !ok {
		return 0, nil
	}
	delete(s.byID, id)
	return 1, nil
}

type stubCounter struct {
	deltas []int
}

func (s *stubCounter) AdjustPromotionCount(_ context.Context, _ uuid.UUID, delta int) error {
	s.deltas = append(s.deltas, delta)
	return nil
}

func newPromotionsService(t *testing.T) (Service, *stubPromotionsRepo, *stubCounter) {
	t.Helper()
	repo := newStubPromotionsRepo()
	counter := &stubCounter{}
	svc, err := NewService(repo, counter, nil, nil)
	require.NoError(t, err)
	return svc, repo, counter
}

func validPromotion(sellerID uuid.UUID) CreatePromotionInput {
	return CreatePromotionInput{
		Title:           "Half Price Coffee",
		SellerID:        sellerID.String(),
		OriginalPrice:   "4.50",
		DiscountedPrice: "2.25",
		Expiry:          time.Now().Add(24 * time.Hour),
		Tags:            []string{"Coffee", " drinks ", ""},
	}
}

func TestCreateParsesDecimalsAndUpsertsTags(t *testing.T) {
	svc, repo, counter := newPromotionsService(t)
	sellerID := uuid.New()

	dto, err := svc.Create(context.Background(), nil, validPromotion(sellerID))
	require.NoError(t, err)

	require.Equal(t, "half-price-coffee", dto.Slug)
	require.True(t, dto.OriginalPrice.Equal(decimal.RequireFromString("4.50")))
	require.True(t, dto.DiscountedPrice.Equal(decimal.RequireFromString("2.25")))
	require.ElementsMatch(t, []string{"coffee", "drinks"}, dto.Tags)
	require.True(t, dto.Active)
	require.Equal(t, models.PromotionThumbnailPlaceholder, dto.Image.Thumbnail)
	require.Equal(t, []int{1}, counter.deltas)
	require.Len(t, repo.tags, 2)
}

func TestCreateRejectsBadPrices(t *testing.T) {
	svc, _, _ := newPromotionsService(t)

	input := validPromotion(uuid.New())
	input.OriginalPrice = "four fifty"
	input.DiscountedPrice = "-1"

	_, err := svc.Create(context.Background(), nil, input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	require.Contains(t, details, "original_price")
	require.Contains(t, details, "discounted_price")
}

func TestCreatePerSellerSlugUniqueness(t *testing.T) {
	svc, _, _ := newPromotionsService(t)
	sellerID := uuid.New()

	_, err := svc.Create(context.Background(), nil, validPromotion(sellerID))
	require.NoError(t, err)

	// Same title for another seller is fine.
	_, err = svc.Create(context.Background(), nil, validPromotion(uuid.New()))
	require.NoError(t, err)

	// Same title for the same seller conflicts.
	_, err = svc.Create(context.Background(), nil, validPromotion(sellerID))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateReparsesTags(t *testing.T) {
	svc, repo, _ := newPromotionsService(t)

	dto, err := svc.Create(context.Background(), nil, validPromotion(uuid.New()))
	require.NoError(t, err)

	tags := []string{"weekend", "coffee"}
	updated, err := svc.Update(context.Background(), dto.ID, UpdatePromotionInput{Tags: &tags})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"weekend", "coffee"}, updated.Tags)
	require.Len(t, repo.replaced, 2)
}

func TestDeleteDropsSellerCounter(t *testing.T) {
	svc, _, counter := newPromotionsService(t)

	dto, err := svc.Create(context.Background(), nil, validPromotion(uuid.New()))
	require.NoError(t, err)

	removed, err := svc.Delete(context.Background(), dto.ID)
	require.NoError(t, err)
	require.Equal(t, dto.ID, removed.ID)
	require.Equal(t, []int{1, -1}, counter.deltas)
}

func TestListBySellerFilters(t *testing.T) {
	svc, _, _ := newPromotionsService(t)
	sellerID := uuid.New()

	_, err := svc.Create(context.Background(), nil, validPromotion(sellerID))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), nil, validPromotion(uuid.New()))
	require.NoError(t, err)

	page, err := svc.ListBySeller(context.Background(), sellerID, pagination.Params{})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
}

func TestOwnerAccessorSeedIsSlug(t *testing.T) {
	repo := newStubPromotionsRepo()
	promotion := &models.Promotion{ID: uuid.New(), Slug: "half-price-coffee"}
	repo.byID[promotion.ID] = promotion

	accessor := NewOwnerAccessor(repo)
	owner, err := accessor.Load(context.Background(), promotion.ID)
	require.NoError(t, err)
	require.Equal(t, "half-price-coffee", owner.Seed)
}
