package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/LGU-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий уведомлений резидентов.
// Доставка и отображение - на стороне портала, ядро только пишет записи.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись уведомления. ID (uuid) генерируется здесь и служит
// ключом дедупликации при повторных прогонах каскада.
func (r *Repository) Create(ctx context.Context, n *domain.Notification) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("notifications").
		Columns("id", "user_id", "type", "title", "message", "link").
		Values(n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
