// Package profile содержит бизнес-логику работы с профилями пользователей.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrichain/subscription-platform/internal/models"
)

// Repository определяет методы хранилища профилей.
type Repository interface {
	// CreateProfile сохраняет новый профиль и возвращает его ID.
	CreateProfile(ctx context.Context, profile models.Profile) (int, error)
	// GetProfile возвращает профиль по user_uid.
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
}

// Service реализует бизнес-логику работы с профилями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create создаёт профиль для аутентифицированной identity. Роль фиксируется
// при создании и не меняется самим пользователем; роль admin через
// самообслуживание не назначается.
func (s *Service) Create(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	const op = "profile.Create"

	if profile.UserUID == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}
	if !profile.Role.Valid() || profile.Role == models.RoleAdmin {
		return nil, fmt.Errorf("%s: invalid role %q", op, profile.Role)
	}

	id, err := s.repo.CreateProfile(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profile.ID = id

	s.log.Info("created new profile",
		slog.String("user_uid", profile.UserUID), slog.String("role", string(profile.Role)))
	return &profile, nil
}

// Get возвращает профиль по user_uid. Отсутствующий профиль не создаётся
// автоматически: models.ErrProfileNotFound поднимается вызывающему, чтобы
// тот заставил пользователя пересоздать аккаунт.
func (s *Service) Get(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "profile.Get"

	if userUID == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	p, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
