package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

type clientPayload struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Address      string    `json:"address,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toClientPayload(cl domain.Client) clientPayload {
	return clientPayload{
		ID:           cl.ID,
		FullName:     cl.FullName,
		Phone:        cl.Phone,
		Email:        cl.Email,
		Address:      cl.Address,
		RegisteredAt: cl.RegisteredAt,
	}
}

type createClientRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

func (s *Server) createClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	client := domain.Client{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
	}
	if err := client.Validate(); err != nil {
		s.respondError(c, err)
		return
	}

	id, err := s.clients.Create(c.Request.Context(), client)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) getClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	client, err := s.clients.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClientPayload(client))
}

func (s *Server) listClients(c *gin.Context) {
	clients, err := s.clients.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	payload := make([]clientPayload, 0, len(clients))
	for _, cl := range clients {
		payload = append(payload, toClientPayload(cl))
	}
	c.JSON(http.StatusOK, payload)
}

type updateClientRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
}

func (s *Server) updateClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	update := domain.ClientUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
	}
	if err := update.Validate(); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.clients.Update(c.Request.Context(), id, update); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.clients.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
