package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

type productPayload struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Article       string    `json:"article,omitempty"`
	Category      string    `json:"category,omitempty"`
	Description   string    `json:"description,omitempty"`
	PriceMinor    int64     `json:"price_minor"`
	StockQuantity int64     `json:"stock_quantity"`
	AddedAt       time.Time `json:"added_at"`
}

func toProductPayload(p domain.Product) productPayload {
	return productPayload{
		ID:            p.ID,
		Name:          p.Name,
		Article:       p.Article,
		Category:      p.Category,
		Description:   p.Description,
		PriceMinor:    p.PriceMinor,
		StockQuantity: p.StockQuantity,
		AddedAt:       p.AddedAt,
	}
}

type createProductRequest struct {
	Name          string `json:"name"`
	Article       string `json:"article"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	PriceMinor    int64  `json:"price_minor"`
	StockQuantity int64  `json:"stock_quantity"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product := domain.Product{
		Name:          req.Name,
		Article:       req.Article,
		Category:      req.Category,
		Description:   req.Description,
		PriceMinor:    req.PriceMinor,
		StockQuantity: req.StockQuantity,
	}
	if err := product.Validate(); err != nil {
		s.respondError(c, err)
		return
	}

	id, err := s.products.Create(c.Request.Context(), product)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := s.products.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductPayload(product))
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.products.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	payload := make([]productPayload, 0, len(products))
	for _, p := range products {
		payload = append(payload, toProductPayload(p))
	}
	c.JSON(http.StatusOK, payload)
}

type updateProductRequest struct {
	Name          *string `json:"name"`
	Article       *string `json:"article"`
	Category      *string `json:"category"`
	Description   *string `json:"description"`
	PriceMinor    *int64  `json:"price_minor"`
	StockQuantity *int64  `json:"stock_quantity"`
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	update := domain.ProductUpdate{
		Name:          req.Name,
		Article:       req.Article,
		Category:      req.Category,
		Description:   req.Description,
		PriceMinor:    req.PriceMinor,
		StockQuantity: req.StockQuantity,
	}
	if err := update.Validate(); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.products.Update(c.Request.Context(), id, update); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.products.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type adjustStockRequest struct {
	Delta int64 `json:"delta"`
}

// adjustStock — ручная корректировка остатка: приёмка (+) или списание (−).
func (s *Server) adjustStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Delta == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta must be non-zero"})
		return
	}

	if err := s.ledger.Adjust(c.Request.Context(), id, req.Delta); err != nil {
		s.respondError(c, err)
		return
	}

	product, err := s.products.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "stock_quantity": product.StockQuantity})
}
