package repository

import (
	"context"
	"fmt"

	"github.com/sunsetfitness/gym-desk/internal/models"
)

// AppendAccessLog добавляет строку в журнал доступа. Журнал только
// пополняется, существующие записи никогда не меняются.
func (s *Storage) AppendAccessLog(ctx context.Context, entry models.AccessLogEntry) (int64, error) {
	const op = "storage.AppendAccessLog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO access_log (credential, member_uid, decision, reason)
			  VALUES ($1, NULLIF($2, ''), $3, $4)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		entry.Credential, entry.MemberUID, entry.Decision, entry.Reason).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RecentAccessLog возвращает n последних записей журнала, самые свежие первыми.
func (s *Storage) RecentAccessLog(ctx context.Context, n int) ([]*models.AccessLogEntry, error) {
	const op = "storage.RecentAccessLog"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, credential, COALESCE(member_uid::text, ''), decision, reason, created_at
			  FROM access_log
			  ORDER BY id DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.AccessLogEntry
	for rows.Next() {
		var e models.AccessLogEntry
		if err := rows.Scan(&e.ID, &e.Credential, &e.MemberUID, &e.Decision, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
