package domain

import (
	"strings"
	"time"
)

// Client — запись о клиенте. Движок заказов читает её, но никогда не меняет.
type Client struct {
	ID       int64
	FullName string
	Phone    string
	// Email опционален, но уникален среди заполненных.
	Email        string
	Address      string
	RegisteredAt time.Time
}

// Validate проверяет обязательные поля клиента.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.FullName) == "" {
		return ErrNameRequired
	}
	return nil
}

// ClientUpdate описывает частичное обновление клиента, nil-поле не меняется.
type ClientUpdate struct {
	FullName *string
	Phone    *string
	Email    *string
	Address  *string
}

// Validate проверяет, что обновление непустое и имя не затирается пустым значением.
func (u *ClientUpdate) Validate() error {
	if u.FullName == nil && u.Phone == nil && u.Email == nil && u.Address == nil {
		return ErrNothingToUpdate
	}
	if u.FullName != nil && strings.TrimSpace(*u.FullName) == "" {
		return ErrNameRequired
	}
	return nil
}
