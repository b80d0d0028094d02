package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// DBExecutor интерфейс для выполнения запросов (*sql.DB, *dbmetrics.DB)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий расписаний, исключений и привязки сотрудников к услугам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeekSchedule собирает недельное расписание владельца из строк working_hours
// Отсутствие строки на день недели означает выходной (IsOpen = false)
func (r *Repository) GetWeekSchedule(ctx context.Context, ownerType domain.OwnerType, ownerID int64) (*domain.WeekSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "open_time", "close_time").
		From("working_hours").
		Where(squirrel.Eq{"owner_type": ownerType, "owner_id": ownerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekSchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekSchedule - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var schedule domain.WeekSchedule
	found := false

	for rows.Next() {
		var weekday int
		var openTime, closeTime types.TimeString

		if err := rows.Scan(&weekday, &openTime, &closeTime); err != nil {
			return nil, fmt.Errorf("%w: GetWeekSchedule - scan row: %v", ErrScanRow, err)
		}

		schedule.SetForWeekday(time.Weekday(weekday), domain.DayHours{
			IsOpen:    true,
			OpenTime:  &openTime,
			CloseTime: &closeTime,
		})
		found = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeekSchedule - rows error: %v", ErrScanRow, err)
	}

	if !found {
		return nil, ErrScheduleNotFound
	}

	return &schedule, nil
}

// GetException возвращает исключение из расписания сотрудника на конкретную дату
func (r *Repository) GetException(ctx context.Context, staffID int64, date time.Time) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"date",
		"type",
		"start_time",
		"end_time",
		"created_at",
	).
		From("availability_exceptions").
		Where(squirrel.Eq{"staff_id": staffID, "date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetException - build select query: %v", ErrBuildQuery, err)
	}

	var exc domain.AvailabilityException
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exc.ID,
		&exc.StaffID,
		&exc.Date,
		&exc.Type,
		&exc.StartTime,
		&exc.EndTime,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetException - scan exception: %v", ErrScanRow, err)
	}

	exc.CreatedAt = createdAt.Time

	return &exc, nil
}

// ListQualifiedStaff возвращает сотрудников бизнеса, оказывающих услугу
// Используется для подбора альтернативного сотрудника на занятый слот
func (r *Repository) ListQualifiedStaff(ctx context.Context, businessID, serviceID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("staff_id").
		From("staff_services").
		Where(squirrel.Eq{"business_id": businessID, "service_id": serviceID}).
		OrderBy("staff_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListQualifiedStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListQualifiedStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staffIDs := make([]int64, 0)
	for rows.Next() {
		var staffID int64
		if err := rows.Scan(&staffID); err != nil {
			return nil, fmt.Errorf("%w: ListQualifiedStaff - scan staff_id: %v", ErrScanRow, err)
		}
		staffIDs = append(staffIDs, staffID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListQualifiedStaff - rows error: %v", ErrScanRow, err)
	}

	return staffIDs, nil
}
