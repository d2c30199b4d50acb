package memory

import (
	"context"
	"sort"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

type clientRepository struct {
	store *Store
}

func (r *clientRepository) Create(_ context.Context, client domain.Client) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if client.Email != "" {
		for _, existing := range s.clients {
			if existing.Email == client.Email {
				return 0, domain.ErrEmailTaken
			}
		}
	}

	s.nextClientID++
	client.ID = s.nextClientID
	if client.RegisteredAt.IsZero() {
		client.RegisteredAt = s.now()
	}
	s.clients[client.ID] = client
	return client.ID, nil
}

func (r *clientRepository) Get(_ context.Context, id int64) (domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[id]
	if !ok {
		return domain.Client{}, domain.ErrClientNotFound
	}
	return client, nil
}

func (r *clientRepository) List(_ context.Context) ([]domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := make([]domain.Client, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].FullName != clients[j].FullName {
			return clients[i].FullName < clients[j].FullName
		}
		return clients[i].ID < clients[j].ID
	})
	return clients, nil
}

func (r *clientRepository) Update(_ context.Context, id int64, update domain.ClientUpdate) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[id]
	if !ok {
		return domain.ErrClientNotFound
	}

	if update.Email != nil && *update.Email != "" {
		for otherID, existing := range s.clients {
			if otherID != id && existing.Email == *update.Email {
				return domain.ErrEmailTaken
			}
		}
	}

	if update.FullName != nil {
		client.FullName = *update.FullName
	}
	if update.Phone != nil {
		client.Phone = *update.Phone
	}
	if update.Email != nil {
		client.Email = *update.Email
	}
	if update.Address != nil {
		client.Address = *update.Address
	}
	s.clients[id] = client
	return nil
}

func (r *clientRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	if s.clientReferencedLocked(id) {
		return domain.ErrClientReferenced
	}
	delete(s.clients, id)
	return nil
}

var _ domain.ClientRepository = (*clientRepository)(nil)
