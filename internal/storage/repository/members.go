package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

// CreateMember вставляет нового клиента и возвращает его UID.
// Повтор кода пропуска отклоняется как ErrCredentialExists, запись не меняется.
func (s *Storage) CreateMember(ctx context.Context, member models.Member) (string, error) {
	const op = "storage.CreateMember"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO members (name, billing_day, due_date, credential)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRowContext(ctx, query,
		member.Name, member.BillingDay, member.DueDate, member.Credential).Scan(&newUID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrCredentialExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// FindMemberByUID возвращает клиента по его UID.
func (s *Storage) FindMemberByUID(ctx context.Context, uid string) (*models.Member, error) {
	const op = "storage.FindMemberByUID"

	query := `SELECT uid, name, billing_day, due_date, credential, created_at
			  FROM members WHERE uid = $1`
	return s.scanMember(ctx, op, query, uid)
}

// FindMemberByCredential возвращает клиента по коду пропуска.
func (s *Storage) FindMemberByCredential(ctx context.Context, credential string) (*models.Member, error) {
	const op = "storage.FindMemberByCredential"

	query := `SELECT uid, name, billing_day, due_date, credential, created_at
			  FROM members WHERE credential = $1`
	return s.scanMember(ctx, op, query, credential)
}

func (s *Storage) scanMember(ctx context.Context, op, query string, arg any) (*models.Member, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, query, arg)

	var m models.Member
	var dueDate sql.NullTime
	if err := row.Scan(&m.UID, &m.Name, &m.BillingDay, &dueDate, &m.Credential, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrMemberNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Пустая дата в базе не фатальна: она будет восстановлена сервисом
	// через ближайшее наступление якорного дня.
	if dueDate.Valid {
		m.DueDate = calendar.Truncate(dueDate.Time)
	}
	return &m, nil
}

// UpdateMember обновляет имя и день платежа клиента, возвращает число изменённых строк.
func (s *Storage) UpdateMember(ctx context.Context, member models.Member) (int, error) {
	const op = "storage.UpdateMember"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE members
			  SET name = $1, billing_day = $2, due_date = $3
			  WHERE uid = $4`
	result, err := s.DB.ExecContext(ctx, query,
		member.Name, member.BillingDay, member.DueDate, member.UID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateMemberDueDate персистит новую дату платежа (перенос цикла или оплата).
func (s *Storage) UpdateMemberDueDate(ctx context.Context, uid string, dueDate time.Time) error {
	const op = "storage.UpdateMemberDueDate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE members SET due_date = $1 WHERE uid = $2`, dueDate, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrMemberNotFound)
	}
	return nil
}

// RemoveMember удаляет клиента по UID и возвращает количество удалённых строк.
func (s *Storage) RemoveMember(ctx context.Context, uid string) (int, error) {
	const op = "storage.RemoveMember"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM members WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListMembers возвращает клиентов, упорядоченных по имени, с пагинацией.
func (s *Storage) ListMembers(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	const op = "storage.ListMembers"

	query := `SELECT uid, name, billing_day, due_date, credential, created_at
			  FROM members
			  ORDER BY name
			  LIMIT $1 OFFSET $2`
	return s.listMembers(ctx, op, query, limit, offset)
}

// SearchMembers ищет клиентов по фрагменту имени без учёта регистра.
func (s *Storage) SearchMembers(ctx context.Context, nameFragment string, limit, offset int) ([]*models.Member, error) {
	const op = "storage.SearchMembers"

	query := `SELECT uid, name, billing_day, due_date, credential, created_at
			  FROM members
			  WHERE name ILIKE '%' || $1 || '%'
			  ORDER BY name
			  LIMIT $2 OFFSET $3`
	return s.listMembers(ctx, op, query, nameFragment, limit, offset)
}

// FindMembersDueWithin возвращает клиентов, чей срок платежа наступает
// в ближайшие days дней (включая сегодня).
func (s *Storage) FindMembersDueWithin(ctx context.Context, today time.Time, days int) ([]*models.Member, error) {
	const op = "storage.FindMembersDueWithin"

	query := `SELECT uid, name, billing_day, due_date, credential, created_at
			  FROM members
			  WHERE due_date >= $1 AND due_date <= $2
			  ORDER BY due_date, name`
	return s.listMembers(ctx, op, query,
		calendar.Truncate(today), calendar.Truncate(today).AddDate(0, 0, days))
}

// FindMembersOverdue возвращает клиентов с просроченной датой платежа.
func (s *Storage) FindMembersOverdue(ctx context.Context, today time.Time) ([]*models.Member, error) {
	const op = "storage.FindMembersOverdue"

	query := `SELECT uid, name, billing_day, due_date, credential, created_at
			  FROM members
			  WHERE due_date < $1
			  ORDER BY due_date, name`
	return s.listMembers(ctx, op, query, calendar.Truncate(today))
}

// CountMembersSummary считает сводку по статусам оплаты на дату today:
// всего, просроченных и попадающих в окно предупреждения (включая сегодня).
func (s *Storage) CountMembersSummary(ctx context.Context, today time.Time, windowDays int) (models.MemberSummary, error) {
	const op = "storage.CountMembersSummary"
	select {
	case <-ctx.Done():
		return models.MemberSummary{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	day := calendar.Truncate(today)
	query := `SELECT COUNT(*),
				 COUNT(*) FILTER (WHERE due_date < $1),
				 COUNT(*) FILTER (WHERE due_date >= $1 AND due_date <= $2)
			  FROM members`
	var summary models.MemberSummary
	err := s.DB.QueryRowContext(ctx, query, day, day.AddDate(0, 0, windowDays)).
		Scan(&summary.Total, &summary.Overdue, &summary.DueSoon)
	if err != nil {
		return models.MemberSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	summary.Current = summary.Total - summary.Overdue - summary.DueSoon
	return summary, nil
}

func (s *Storage) listMembers(ctx context.Context, op, query string, args ...any) ([]*models.Member, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Member
	for rows.Next() {
		var m models.Member
		var dueDate sql.NullTime
		if err := rows.Scan(&m.UID, &m.Name, &m.BillingDay, &dueDate, &m.Credential, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if dueDate.Valid {
			m.DueDate = calendar.Truncate(dueDate.Time)
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
