package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

type orderItemRequest struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int64 `json:"quantity"`
	PriceMinor int64 `json:"price_minor"`
}

type createOrderRequest struct {
	ClientID int64              `json:"client_id"`
	Status   string             `json:"status"`
	Items    []orderItemRequest `json:"items"`
}

type orderSummaryPayload struct {
	ID         int64     `json:"id"`
	ClientName string    `json:"client_name"`
	PlacedAt   time.Time `json:"placed_at"`
	Status     string    `json:"status"`
	TotalMinor int64     `json:"total_minor"`
}

type orderItemPayload struct {
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name"`
	ProductArticle string `json:"product_article,omitempty"`
	Quantity       int64  `json:"quantity"`
	PriceMinor     int64  `json:"price_minor"`
}

type orderDetailPayload struct {
	ID          int64              `json:"id"`
	ClientID    int64              `json:"client_id"`
	ClientName  string             `json:"client_name"`
	ClientPhone string             `json:"client_phone,omitempty"`
	ClientEmail string             `json:"client_email,omitempty"`
	PlacedAt    time.Time          `json:"placed_at"`
	Status      string             `json:"status"`
	TotalMinor  int64              `json:"total_minor"`
	Items       []orderItemPayload `json:"items"`
}

func toOrderDetailPayload(d domain.OrderDetail) orderDetailPayload {
	items := make([]orderItemPayload, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, orderItemPayload{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			ProductArticle: item.ProductArticle,
			Quantity:       item.Quantity,
			PriceMinor:     item.PriceMinor,
		})
	}
	return orderDetailPayload{
		ID:          d.ID,
		ClientID:    d.ClientID,
		ClientName:  d.ClientName,
		ClientPhone: d.ClientPhone,
		ClientEmail: d.ClientEmail,
		PlacedAt:    d.PlacedAt,
		Status:      string(d.Status),
		TotalMinor:  d.TotalMinor,
		Items:       items,
	}
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft := domain.OrderDraft{
		ClientID: req.ClientID,
		Status:   domain.OrderStatus(req.Status),
		Items:    make([]domain.OrderItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		draft.Items = append(draft.Items, domain.OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceMinor: item.PriceMinor,
		})
	}

	id, err := s.engine.Create(c.Request.Context(), draft)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := s.engine.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetailPayload(detail))
}

func (s *Server) listOrders(c *gin.Context) {
	summaries, err := s.engine.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	payload := make([]orderSummaryPayload, 0, len(summaries))
	for _, summary := range summaries {
		payload = append(payload, orderSummaryPayload{
			ID:         summary.ID,
			ClientName: summary.ClientName,
			PlacedAt:   summary.PlacedAt,
			Status:     string(summary.Status),
			TotalMinor: summary.TotalMinor,
		})
	}
	c.JSON(http.StatusOK, payload)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) setOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.engine.SetStatus(c.Request.Context(), id, domain.OrderStatus(req.Status)); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.engine.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
