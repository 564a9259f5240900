package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diecast-store/internal/catalog"
	"diecast-store/internal/domain"
	"diecast-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Options tunes the catalog views. WorkingSetLimit caps how many products
// the listing loads into memory for the engine; it is the one pagination
// authority boundary (the engine paginates, SQL never stacks a second
// window on top of it).
type Options struct {
	PageSize        int
	FeaturedLimit   int
	RelatedLimit    int
	WorkingSetLimit int
}

// ListingPage is everything the products page needs for one render.
type ListingPage struct {
	Items         []domain.Product
	TotalMatching int
	TotalProducts int
	QueryString   string
	Brands        []domain.Brand
	Categories    []domain.Category
	Page          int
	PageSize      int

	// Degraded is set when any store call failed and its slot was served
	// empty. It lets callers tell "zero results" apart from "backend down".
	Degraded bool
}

// FeaturedResult carries the homepage featured strip.
type FeaturedResult struct {
	Items    []domain.Product
	Degraded bool
}

// ProductDetail is the product page payload: the product itself, reviews,
// and related products from the same category.
type ProductDetail struct {
	Product  *domain.Product
	Reviews  []domain.Review
	Related  []domain.Product
	Degraded bool
}

// ReviewInput is a validated review submission.
type ReviewInput struct {
	Author  string
	Rating  int
	Title   string
	Content string
}

// CatalogService assembles catalog views from the repositories and the
// filter/sort/paginate engine.
type CatalogService interface {
	ListingPage(ctx context.Context, rawQuery string) (*ListingPage, error)
	FeaturedProducts(ctx context.Context) *FeaturedResult
	ProductBySlug(ctx context.Context, slug string) (*ProductDetail, error)
	ProductReviews(ctx context.Context, slug string) ([]domain.Review, error)
	AddReview(ctx context.Context, slug string, input ReviewInput) (*domain.Review, error)
	Brands(ctx context.Context) ([]domain.Brand, bool)
	Categories(ctx context.Context) ([]domain.Category, bool)
}

type catalogService struct {
	products   repository.ProductRepository
	brands     repository.BrandRepository
	categories repository.CategoryRepository
	reviews    repository.ReviewRepository
	opts       Options
	logger     *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	products repository.ProductRepository,
	brands repository.BrandRepository,
	categories repository.CategoryRepository,
	reviews repository.ReviewRepository,
	opts Options,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		products:   products,
		brands:     brands,
		categories: categories,
		reviews:    reviews,
		opts:       opts,
		logger:     logger,
	}
}

// ListingPage decodes the raw listing query string into criteria, loads the
// working set plus reference data in parallel, and runs the engine over it.
//
// The four store calls are independent reads with no ordering dependency,
// so they run concurrently and the page is assembled once all have
// finished. A failed call degrades to an empty slot instead of failing the
// page; the Degraded flag records that it happened.
func (s *catalogService) ListingPage(ctx context.Context, rawQuery string) (*ListingPage, error) {
	criteria := catalog.Decode(rawQuery)
	criteria.PageSize = s.opts.PageSize

	listParams := repository.ListParams{
		Limit: s.opts.WorkingSetLimit,
	}
	countParams := repository.CountParams{}
	if len(criteria.CategorySlugs) > 0 {
		listParams.CategorySlug = criteria.CategorySlugs[0]
		countParams.CategorySlug = criteria.CategorySlugs[0]
	}
	if len(criteria.BrandSlugs) > 0 {
		listParams.BrandSlug = criteria.BrandSlugs[0]
		countParams.BrandSlug = criteria.BrandSlugs[0]
	}

	// Each goroutine writes only its own slot; the slots are folded into
	// the page after Wait so no two goroutines ever touch the same field.
	var (
		workingSet    []domain.Product
		brands        []domain.Brand
		categories    []domain.Category
		totalProducts int
		degraded      [4]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.products.List(gctx, listParams)
		if err != nil {
			s.logger.Warn("Product listing degraded to empty", zap.Error(err))
			degraded[0] = true
			return nil
		}
		workingSet = products
		return nil
	})
	g.Go(func() error {
		all, err := s.brands.List(gctx)
		if err != nil {
			s.logger.Warn("Brand listing degraded to empty", zap.Error(err))
			degraded[1] = true
			return nil
		}
		brands = all
		return nil
	})
	g.Go(func() error {
		all, err := s.categories.List(gctx)
		if err != nil {
			s.logger.Warn("Category listing degraded to empty", zap.Error(err))
			degraded[2] = true
			return nil
		}
		categories = all
		return nil
	})
	g.Go(func() error {
		total, err := s.products.Count(gctx, countParams)
		if err != nil {
			s.logger.Warn("Product count degraded to zero", zap.Error(err))
			degraded[3] = true
			return nil
		}
		totalProducts = total
		return nil
	})

	// Goroutines above never return an error; Wait only orders the writes.
	_ = g.Wait()

	result, err := catalog.Apply(workingSet, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing page: %w", err)
	}

	page := &ListingPage{
		Items:         result.Items,
		TotalMatching: result.TotalMatching,
		TotalProducts: totalProducts,
		QueryString:   result.QueryString,
		Brands:        brands,
		Categories:    categories,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		Degraded:      degraded[0] || degraded[1] || degraded[2] || degraded[3],
	}

	return page, nil
}

// FeaturedProducts returns the featured strip, newest first. A store
// failure is served as an empty, degraded strip.
func (s *catalogService) FeaturedProducts(ctx context.Context) *FeaturedResult {
	products, err := s.products.ListFeatured(ctx, s.opts.FeaturedLimit)
	if err != nil {
		s.logger.Warn("Featured products degraded to empty", zap.Error(err))
		return &FeaturedResult{Items: []domain.Product{}, Degraded: true}
	}

	return &FeaturedResult{Items: products}
}

// ProductBySlug loads one product with its reviews and related products.
// A missing product is terminal (404 semantics); missing reviews or related
// products only degrade their slots.
func (s *catalogService) ProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product %q: %w", slug, err)
	}

	detail := &ProductDetail{Product: product}

	reviews, err := s.reviews.ListByProduct(ctx, product.ID)
	if err != nil {
		s.logger.Warn("Review listing degraded to empty",
			zap.String("slug", slug), zap.Error(err))
		detail.Degraded = true
		reviews = []domain.Review{}
	}
	detail.Reviews = reviews

	// One extra row so the product itself can be dropped from its own
	// related list without coming up short.
	related, err := s.products.List(ctx, repository.ListParams{
		CategorySlug: product.Category.Slug,
		Limit:        s.opts.RelatedLimit + 1,
	})
	if err != nil {
		s.logger.Warn("Related products degraded to empty",
			zap.String("slug", slug), zap.Error(err))
		detail.Degraded = true
		related = []domain.Product{}
	}

	detail.Related = make([]domain.Product, 0, s.opts.RelatedLimit)
	for _, p := range related {
		if p.ID == product.ID {
			continue
		}
		if len(detail.Related) == s.opts.RelatedLimit {
			break
		}
		detail.Related = append(detail.Related, p)
	}

	return detail, nil
}

// ProductReviews returns all reviews for the product with the given slug.
func (s *catalogService) ProductReviews(ctx context.Context, slug string) ([]domain.Review, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product %q: %w", slug, err)
	}

	reviews, err := s.reviews.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for %q: %w", slug, err)
	}

	return reviews, nil
}

// Brands returns all brands ordered by name, degrading to empty on store
// failure; the second return reports the degradation.
func (s *catalogService) Brands(ctx context.Context) ([]domain.Brand, bool) {
	brands, err := s.brands.List(ctx)
	if err != nil {
		s.logger.Warn("Brand listing degraded to empty", zap.Error(err))
		return []domain.Brand{}, true
	}
	return brands, false
}

// Categories returns all categories ordered by name, degrading to empty on
// store failure.
func (s *catalogService) Categories(ctx context.Context) ([]domain.Category, bool) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		s.logger.Warn("Category listing degraded to empty", zap.Error(err))
		return []domain.Category{}, true
	}
	return categories, false
}

// AddReview attaches a review to the product with the given slug.
func (s *catalogService) AddReview(ctx context.Context, slug string, input ReviewInput) (*domain.Review, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product %q: %w", slug, err)
	}

	review := &domain.Review{
		ID:        uuid.New(),
		ProductID: product.ID,
		Author:    input.Author,
		Rating:    input.Rating,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return review, nil
}
