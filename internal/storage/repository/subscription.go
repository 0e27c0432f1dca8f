package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agrichain/subscription-platform/internal/models"
)

const subscriptionColumns = `id, user_uid, plan_type, amount, status, period_start, period_end, reference, created_at`

func scanSubscription(row interface{ Scan(dest ...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	var planType, status string
	var periodStart, periodEnd sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserUID, &planType, &sub.Amount, &status,
		&periodStart, &periodEnd, &sub.Reference, &sub.CreatedAt); err != nil {
		return nil, err
	}
	sub.PlanType = models.PlanType(planType)
	sub.Status = models.SubscriptionStatus(status)
	if periodStart.Valid {
		sub.PeriodStart = &periodStart.Time
	}
	if periodEnd.Valid {
		sub.PeriodEnd = &periodEnd.Time
	}
	return &sub, nil
}

// CreatePendingSubscription вставляет новую pending-запись подписки и возвращает её ID.
// Повторные инициации создают независимые pending-записи: это допустимо,
// активируется только та, чью ссылку подтвердит шлюз.
func (s *Storage) CreatePendingSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreatePendingSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, plan_type, amount, status, reference)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, string(sub.PlanType), sub.Amount, string(models.StatusPending), sub.Reference).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FindByReference возвращает запись подписки по ссылке корреляции.
func (s *Storage) FindByReference(ctx context.Context, ref string) (*models.Subscription, error) {
	const op = "storage.FindByReference"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE reference = $1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ActivateByReference переводит запись с данной ссылкой в active и назначает
// оплаченный период. В той же транзакции прочие active-записи пользователя
// понижаются до expired: инвариант "не больше одной active-подписки"
// обеспечивается здесь, а не схемой.
//
// Обновление идемпотентно по ссылке: повторный вызов для уже активной записи
// перезапишет тот же статус, не создавая новых строк.
func (s *Storage) ActivateByReference(ctx context.Context, ref string, periodStart, periodEnd time.Time) (*models.Subscription, error) {
	const op = "storage.ActivateByReference"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var userUID string
	if err = tx.QueryRowContext(ctx,
		`SELECT user_uid FROM subscriptions WHERE reference = $1 FOR UPDATE`, ref).Scan(&userUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1
		 WHERE user_uid = $2 AND status = $3 AND reference <> $4`,
		string(models.StatusExpired), userUID, string(models.StatusActive), ref); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE subscriptions
			  SET status = $1, period_start = $2, period_end = $3
			  WHERE reference = $4
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(tx.QueryRowContext(ctx, query,
		string(models.StatusActive), periodStart, periodEnd, ref))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// CurrentSubscription возвращает "текущую" подписку пользователя:
// самую свежую по дате создания среди active/expired/cancelled,
// с приоритетом active. Pending-записи текущими не считаются.
func (s *Storage) CurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.CurrentSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1 AND status IN ($2, $3, $4)
			  ORDER BY (status = $2) DESC, created_at DESC
			  LIMIT 1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userUID,
		string(models.StatusActive), string(models.StatusExpired), string(models.StatusCancelled)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// MarkExpired понижает active-запись до expired. Корректирующая запись
// ленивого свипера: условие по статусу делает её безопасной при гонке
// с параллельной активацией нового периода.
func (s *Storage) MarkExpired(ctx context.Context, id int) error {
	const op = "storage.MarkExpired"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1 WHERE id = $2 AND status = $3`,
		string(models.StatusExpired), id, string(models.StatusActive)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CancelSubscriptions переводит незавершённые записи пользователя (active и
// pending) в cancelled и возвращает количество изменённых строк.
// Вызывается только административно.
func (s *Storage) CancelSubscriptions(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CancelSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1 WHERE user_uid = $2 AND status IN ($3, $4)`,
		string(models.StatusCancelled), userUID, string(models.StatusActive), string(models.StatusPending))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptions возвращает историю подписок пользователя, свежие первыми.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
