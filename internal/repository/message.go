package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/portfolio-site/internal/domain"
	"github.com/vietanh2810/portfolio-site/internal/repository/dao"
)

var (
	ErrMalformedStore     = dao.ErrMalformedStore
	ErrStorageUnavailable = dao.ErrStorageUnavailable
)

type MessageDAO interface {
	Insert(ctx context.Context, msg dao.ContactMessage) (dao.ContactMessage, error)
	FindAll(ctx context.Context) ([]dao.ContactMessage, error)
}

type MessageRepository struct {
	dao MessageDAO
}

func NewMessageRepository(dao MessageDAO) *MessageRepository {
	return &MessageRepository{
		dao: dao,
	}
}

// Append persists msg. ID and Timestamp are assigned by the store and any
// values set by the caller are ignored.
func (r *MessageRepository) Append(ctx context.Context, msg domain.StoredMessage) (domain.StoredMessage, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(msg))
	if err != nil {
		return domain.StoredMessage{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MessageRepository) ListAll(ctx context.Context) ([]domain.StoredMessage, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	messages := make([]domain.StoredMessage, len(found))
	for i, m := range found {
		messages[i] = r.daoToDomain(m)
	}

	return messages, nil
}

func (r *MessageRepository) domainToDAO(m domain.StoredMessage) dao.ContactMessage {
	return dao.ContactMessage{
		Name:    m.Name,
		Email:   m.Email,
		Message: m.Message,
		IP:      m.ClientAddress,
	}
}

func (r *MessageRepository) daoToDomain(m dao.ContactMessage) domain.StoredMessage {
	return domain.StoredMessage{
		ID:            m.MessageID,
		Name:          m.Name,
		Email:         m.Email,
		Message:       m.Message,
		Timestamp:     m.Timestamp,
		ClientAddress: m.IP,
	}
}
