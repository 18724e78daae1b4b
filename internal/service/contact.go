package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/portfolio-site/internal/domain"
	"github.com/vietanh2810/portfolio-site/internal/repository"
)

var (
	ErrPersistence        = errors.New("failed to persist message")
	ErrReadMessages       = errors.New("failed to read messages")
	ErrMalformedStore     = repository.ErrMalformedStore
	ErrStorageUnavailable = repository.ErrStorageUnavailable
)

type MessageRepository interface {
	Append(ctx context.Context, msg domain.StoredMessage) (domain.StoredMessage, error)
	ListAll(ctx context.Context) ([]domain.StoredMessage, error)
}

type ContactService struct {
	repo MessageRepository
}

func NewContactService(repo MessageRepository) *ContactService {
	return &ContactService{
		repo: repo,
	}
}

// Submit stores an already validated and normalized submission.
func (s *ContactService) Submit(ctx context.Context, sub domain.Submission, clientAddress string) (domain.StoredMessage, error) {
	saved, err := s.repo.Append(ctx, domain.StoredMessage{
		Name:          sub.Name,
		Email:         sub.Email,
		Message:       sub.Message,
		ClientAddress: clientAddress,
	})
	if err != nil {
		logStoreFailure("append", err)
		return domain.StoredMessage{}, fmt.Errorf("%w: s.repo.Append -> %w", ErrPersistence, err)
	}

	zap.L().Info("contact form submission saved",
		zap.Int64("id", saved.ID),
		zap.String("name", saved.Name),
		zap.String("email", saved.Email),
		zap.String("ip", saved.ClientAddress),
	)

	return saved, nil
}

// ListMessages returns every stored message. There is no access control.
func (s *ContactService) ListMessages(ctx context.Context) ([]domain.StoredMessage, error) {
	messages, err := s.repo.ListAll(ctx)
	if err != nil {
		logStoreFailure("list", err)
		return nil, fmt.Errorf("%w: s.repo.ListAll -> %w", ErrReadMessages, err)
	}

	return messages, nil
}

// logStoreFailure flags store conditions an operator has to act on. Other
// failures are logged once by the HTTP layer.
func logStoreFailure(op string, err error) {
	switch {
	case errors.Is(err, ErrMalformedStore):
		zap.L().Error("message store is malformed and needs repair", zap.String("op", op), zap.Error(err))
	case errors.Is(err, ErrStorageUnavailable):
		zap.L().Warn("message storage unavailable", zap.String("op", op), zap.Error(err))
	}
}
