package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов (*sql.DB, *dbmetrics.DB)
type DBExecutor = dbmetrics.DBExecutor

var policyColumns = []string{
	"id",
	"business_id",
	"service_id",
	"duration_minutes",
	"slot_interval_minutes",
	"min_advance_hours",
	"advance_booking_days",
	"cancellation_hours",
	"max_bookings_per_slot",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с политиками бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую политику
func (r *Repository) Create(ctx context.Context, p *domain.ServicePolicy) (*domain.ServicePolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_policies").
		Columns(
			"business_id",
			"service_id",
			"duration_minutes",
			"slot_interval_minutes",
			"min_advance_hours",
			"advance_booking_days",
			"cancellation_hours",
			"max_bookings_per_slot",
		).
		Values(
			p.BusinessID,
			p.ServiceID,
			p.DurationMinutes,
			p.SlotIntervalMinutes,
			p.MinAdvanceHours,
			p.AdvanceBookingDays,
			p.CancellationHours,
			p.MaxBookingsPerSlot,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// GetPolicyWithHierarchy получает политику с учётом иерархии:
// сначала ищет политику конкретной услуги, затем общую политику бизнеса
func (r *Repository) GetPolicyWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.ServicePolicy, error) {
	if serviceID != nil {
		p, err := r.getOne(ctx, squirrel.Eq{"business_id": businessID, "service_id": *serviceID})
		if err == nil {
			return p, nil
		}
		if err != ErrPolicyNotFound {
			return nil, err
		}
	}

	return r.getOne(ctx, squirrel.Eq{"business_id": businessID, "service_id": nil})
}

// Update обновляет политику по ID
func (r *Repository) Update(ctx context.Context, p *domain.ServicePolicy) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_policies").
		Set("duration_minutes", p.DurationMinutes).
		Set("slot_interval_minutes", p.SlotIntervalMinutes).
		Set("min_advance_hours", p.MinAdvanceHours).
		Set("advance_booking_days", p.AdvanceBookingDays).
		Set("cancellation_hours", p.CancellationHours).
		Set("max_bookings_per_slot", p.MaxBookingsPerSlot).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPolicyNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.ServicePolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("service_policies").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.ServicePolicy
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.BusinessID,
		&p.ServiceID,
		&p.DurationMinutes,
		&p.SlotIntervalMinutes,
		&p.MinAdvanceHours,
		&p.AdvanceBookingDays,
		&p.CancellationHours,
		&p.MaxBookingsPerSlot,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan policy: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
