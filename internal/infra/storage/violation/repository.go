package violation

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/LGU-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий для чтения нарушений пользователей
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория нарушений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CountBlockingSince считает high/critical нарушения пользователя с указанной даты.
// Единственная выборка, которую потребляет движок авто-одобрения.
func (r *Repository) CountBlockingSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	severities := make([]string, len(domain.BlockingSeverities))
	for i, s := range domain.BlockingSeverities {
		severities[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("user_violations").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"severity": severities}).
		Where(squirrel.GtOrEq{"created_at": since}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountBlockingSince - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBlockingSince - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}
