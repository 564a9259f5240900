package transport

import (
	"errors"
	"net/http"

	"diecast-store/internal/catalog"
	"diecast-store/internal/domain"
	"diecast-store/internal/middleware"
	"diecast-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateReviewRequest represents a review submission payload
type CreateReviewRequest struct {
	Author  string `json:"author" validate:"required,max=100"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title" validate:"max=150"`
	Content string `json:"content" validate:"required,max=5000"`
}

// ProductView decorates a denormalized product with the display fields the
// storefront derives from it. Discounted applies the single global rule:
// an original price is a discount only when it exceeds the current price.
type ProductView struct {
	domain.Product
	Discounted      bool `json:"discounted"`
	DiscountPercent int  `json:"discount_percent,omitempty"`
	InStock         bool `json:"in_stock"`
}

// NewProductView builds the display decoration for one product.
func NewProductView(p domain.Product) ProductView {
	return ProductView{
		Product:         p,
		Discounted:      p.Discounted(),
		DiscountPercent: p.DiscountPercent(),
		InStock:         p.InStock(),
	}
}

// ListingResponse is the products page payload.
type ListingResponse struct {
	Items         []ProductView     `json:"items"`
	TotalMatching int               `json:"total_matching"`
	TotalProducts int               `json:"total_products"`
	Page          int               `json:"page"`
	PerPage       int               `json:"per_page"`
	TotalPages    int               `json:"total_pages"`
	QueryString   string            `json:"query_string"`
	Brands        []domain.Brand    `json:"brands"`
	Categories    []domain.Category `json:"categories"`
	Degraded      bool              `json:"degraded"`
}

// FeaturedResponse is the homepage featured strip payload.
type FeaturedResponse struct {
	Items    []ProductView `json:"items"`
	Degraded bool          `json:"degraded"`
}

// ProductDetailResponse is the product page payload.
type ProductDetailResponse struct {
	Product  ProductView     `json:"product"`
	Reviews  []domain.Review `json:"reviews"`
	Related  []ProductView   `json:"related"`
	Degraded bool            `json:"degraded"`
}

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/featured", h.FeaturedProducts)
		r.Get("/products/{slug}", h.GetProduct)
		r.Get("/products/{slug}/reviews", h.ListReviews)
		r.Post("/products/{slug}/reviews", h.CreateReview)
		r.Get("/brands", h.ListBrands)
		r.Get("/categories", h.ListCategories)
	})
}

// ListProducts handles the listing page:
// GET /api/products?search=&brand=&category=&sort=&page=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalogService.ListingPage(r.Context(), r.URL.RawQuery)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidCriteria) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid pagination parameters")
			return
		}

		h.logger.Error("Listing page failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	response := ListingResponse{
		Items:         make([]ProductView, 0, len(page.Items)),
		TotalMatching: page.TotalMatching,
		TotalProducts: page.TotalProducts,
		Page:          page.Page,
		PerPage:       page.PageSize,
		TotalPages:    totalPages(page.TotalMatching, page.PageSize),
		QueryString:   page.QueryString,
		Brands:        page.Brands,
		Categories:    page.Categories,
		Degraded:      page.Degraded,
	}
	for _, p := range page.Items {
		response.Items = append(response.Items, NewProductView(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// FeaturedProducts handles GET /api/products/featured
func (h *CatalogHandler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	featured := h.catalogService.FeaturedProducts(r.Context())

	response := FeaturedResponse{
		Items:    make([]ProductView, 0, len(featured.Items)),
		Degraded: featured.Degraded,
	}
	for _, p := range featured.Items {
		response.Items = append(response.Items, NewProductView(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetProduct handles GET /api/products/{slug}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.catalogService.ProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Product lookup failed", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	response := ProductDetailResponse{
		Product:  NewProductView(*detail.Product),
		Reviews:  detail.Reviews,
		Related:  make([]ProductView, 0, len(detail.Related)),
		Degraded: detail.Degraded,
	}
	for _, p := range detail.Related {
		response.Related = append(response.Related, NewProductView(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// ListReviews handles GET /api/products/{slug}/reviews
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	reviews, err := h.catalogService.ProductReviews(r.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Review listing failed", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

// CreateReview handles POST /api/products/{slug}/reviews
func (h *CatalogHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req CreateReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Review validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.catalogService.AddReview(r.Context(), slug, service.ReviewInput{
		Author:  req.Author,
		Rating:  req.Rating,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Review creation failed", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create review")
		return
	}

	h.logger.Info("Review created",
		zap.String("slug", slug),
		zap.String("review_id", review.ID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

// ListBrands handles GET /api/brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, degraded := h.catalogService.Brands(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items":    brands,
		"degraded": degraded,
	})
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, degraded := h.catalogService.Categories(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items":    categories,
		"degraded": degraded,
	})
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
