package reservation

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

var reservationColumns = []string{
	"id",
	"user_id",
	"facility_id",
	"reservation_date",
	"time_slot",
	"purpose",
	"status",
	"expected_attendees",
	"is_commercial",
	"auto_approved",
	"postponed_priority",
	"postponed_at",
	"expires_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями объектов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её - при создании
// бронирования с проверкой конфликта это обязательно (защита от гонки).
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"user_id",
			"facility_id",
			"reservation_date",
			"time_slot",
			"purpose",
			"status",
			"expected_attendees",
			"is_commercial",
			"auto_approved",
			"expires_at",
		).
		Values(
			res.UserID,
			res.FacilityID,
			res.ReservationDate,
			res.TimeSlot,
			res.Purpose,
			res.Status,
			res.ExpectedAttendees,
			res.IsCommercial,
			res.AutoApproved,
			res.ExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reservation_date DESC, time_slot DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListWithFilter получает бронирования объекта с гибкой фильтрацией.
// Дневная партиция (facility_id + дата) - основной путь чтения для
// классификатора конфликтов и каскада обслуживания.
//
// Если фильтр указывает конкретную дату (или FutureOnly) и в контексте есть
// активная транзакция, выборка блокируется FOR UPDATE - это сериализует
// проверку конфликта при создании бронирования и пакет каскада между собой.
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"facility_id": filter.FacilityID})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"reservation_date": *filter.Date})
	}

	if filter.FutureOnly {
		selectBuilder = selectBuilder.Where(squirrel.Expr("reservation_date >= CURRENT_DATE"))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}

	if filter.ExcludeReservationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeReservationID})
	}

	if filter.ExcludeExpired {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Expr("expires_at IS NULL"),
			squirrel.Expr("expires_at > NOW()"),
		})
	}

	selectBuilder = selectBuilder.OrderBy("reservation_date ASC, time_slot ASC")

	if dbmetrics.IsInTransaction(ctx) && (filter.Date != nil || filter.FutureOnly) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// CountApprovedSameWeekdaySlot считает одобренные бронирования слота за тот же
// день недели за период lookback (историческая составляющая риск-скоринга)
func (r *Repository) CountApprovedSameWeekdaySlot(ctx context.Context, facilityID int64, weekday int, timeSlot string, since time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"facility_id": facilityID}).
		Where(squirrel.Eq{"time_slot": timeSlot}).
		Where(squirrel.Eq{"status": domain.StatusApproved}).
		Where(squirrel.Expr("EXTRACT(DOW FROM reservation_date) = ?", weekday)).
		Where(squirrel.GtOrEq{"reservation_date": since}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountApprovedSameWeekdaySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountApprovedSameWeekdaySlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountPendingSameSlot считает pending-заявки на тот же объект, дату и слот
func (r *Repository) CountPendingSameSlot(ctx context.Context, facilityID int64, date time.Time, timeSlot string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"facility_id": facilityID}).
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.Eq{"time_slot": timeSlot}).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountPendingSameSlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountPendingSameSlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
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
		return ErrReservationNotFound
	}

	return nil
}

// MarkPostponed переводит бронирование в postponed с приоритетом восстановления
func (r *Repository) MarkPostponed(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusPostponed).
		Set("postponed_priority", true).
		Set("postponed_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPostponed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPostponed - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPostponed - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ListPostponedWithPriority получает будущие postponed-бронирования с приоритетом,
// упорядоченные по времени отложения (первым отложили - первым уведомляем)
func (r *Repository) ListPostponedWithPriority(ctx context.Context, facilityID int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"facility_id": facilityID}).
		Where(squirrel.Eq{"status": domain.StatusPostponed}).
		Where(squirrel.Eq{"postponed_priority": true}).
		Where(squirrel.Expr("reservation_date >= CURRENT_DATE")).
		OrderBy("postponed_at ASC, reservation_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPostponedWithPriority - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPostponedWithPriority - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListExpiryCandidates получает pending/postponed бронирования с датой не позже
// сегодняшней - кандидаты на автоматический отказ
func (r *Repository) ListExpiryCandidates(ctx context.Context) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"status": []string{string(domain.StatusPending), string(domain.StatusPostponed)}}).
		Where(squirrel.Expr("reservation_date <= CURRENT_DATE")).
		OrderBy("reservation_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiryCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiryCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// DeclineIfStillPending условно переводит бронирование в denied, только если оно
// всё ещё pending/postponed. Возвращает true, если строка была обновлена -
// вызывающий код эмитит побочные эффекты только в этом случае, что делает
// операцию идемпотентной и безопасной при конкурентном запуске.
func (r *Repository) DeclineIfStillPending(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusDenied).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusPending), string(domain.StatusPostponed)}}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: DeclineIfStillPending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: DeclineIfStillPending - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: DeclineIfStillPending - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// AppendHistory добавляет запись в историю статусов бронирования
func (r *Repository) AppendHistory(ctx context.Context, reservationID int64, status domain.ReservationStatus, note string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservation_history").
		Columns("reservation_id", "status", "note").
		Values(reservationID, status, note).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AppendHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendHistory - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.FacilityID,
		&res.ReservationDate,
		&res.TimeSlot,
		&res.Purpose,
		&res.Status,
		&res.ExpectedAttendees,
		&res.IsCommercial,
		&res.AutoApproved,
		&res.PostponedPriority,
		&res.PostponedAt,
		&res.ExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
