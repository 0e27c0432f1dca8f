package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agrichain/subscription-platform/internal/models"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникальности.
const uniqueViolation = "23505"

// CreateProfile сохраняет новый профиль и возвращает его ID.
// Профиль создаётся один раз на identity: повторная вставка для того же
// user_uid возвращает models.ErrProfileExists.
func (s *Storage) CreateProfile(ctx context.Context, profile models.Profile) (int, error) {
	const op = "storage.CreateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO profiles (user_uid, name, phone, location, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		profile.UserUID, profile.Name, profile.Phone, profile.Location, string(profile.Role)).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, models.ErrProfileExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProfile возвращает профиль по user_uid.
// Отсутствие профиля — models.ErrProfileNotFound: профиль никогда
// не создаётся автоматически при чтении.
func (s *Storage) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, phone, location, role, created_at
			  FROM profiles
			  WHERE user_uid = $1`
	p := &models.Profile{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var phone, location sql.NullString
	var role string
	if err := row.Scan(&p.ID, &p.UserUID, &p.Name, &phone, &location, &role, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if phone.Valid {
		p.Phone = phone.String
	}
	if location.Valid {
		p.Location = location.String
	}
	p.Role = models.Role(role)
	return p, nil
}
