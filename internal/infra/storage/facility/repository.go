package facility

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/LGU-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с объектами и их блэкаут-датами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория объектов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает объект по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Facility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"description",
		"location",
		"capacity",
		"status",
		"auto_approve",
		"capacity_threshold",
		"max_duration_hours",
		"operating_open_minutes",
		"operating_close_minutes",
		"created_at",
		"updated_at",
	).
		From("facilities").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var f domain.Facility
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&f.ID,
		&f.Name,
		&f.Description,
		&f.Location,
		&f.Capacity,
		&f.Status,
		&f.AutoApprove,
		&f.CapacityThreshold,
		&f.MaxDurationHours,
		&f.OperatingOpenMinutes,
		&f.OperatingCloseMinutes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan facility: %v", ErrScanRow, err)
	}

	f.CreatedAt = createdAt.Time
	f.UpdatedAt = updatedAt.Time

	return &f, nil
}

// GetBlackoutDate получает блэкаут объекта на конкретную дату
func (r *Repository) GetBlackoutDate(ctx context.Context, facilityID int64, date time.Time) (*domain.BlackoutDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "facility_id", "blackout_date", "reason").
		From("facility_blackout_dates").
		Where(squirrel.Eq{"facility_id": facilityID}).
		Where(squirrel.Eq{"blackout_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackoutDate - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.BlackoutDate
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.FacilityID,
		&b.Date,
		&b.Reason,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBlackoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackoutDate - scan blackout: %v", ErrScanRow, err)
	}

	return &b, nil
}

// UpdateStatus обновляет статус доступности объекта
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.FacilityStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("facilities").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrFacilityNotFound
	}

	return nil
}
