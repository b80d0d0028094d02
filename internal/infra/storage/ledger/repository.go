package ledger

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

var entryColumns = []string{
	"id",
	"user_id",
	"direction",
	"amount",
	"balance_after",
	"source",
	"reservation_ref",
	"created_at",
}

// Repository репозиторий append-only леджера кошелька
// Записи никогда не обновляются и не удаляются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория леджера
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в леджер
// BalanceAfter рассчитывает вызывающая сторона внутри сериализуемой транзакции,
// что исключает гонку между чтением баланса и записью
func (r *Repository) Append(ctx context.Context, entry *domain.WalletLedgerEntry) (*domain.WalletLedgerEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("wallet_ledger").
		Columns(
			"user_id",
			"direction",
			"amount",
			"balance_after",
			"source",
			"reservation_ref",
		).
		Values(
			entry.UserID,
			entry.Direction,
			entry.Amount,
			entry.BalanceAfter,
			entry.Source,
			entry.ReservationRef,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time

	return entry, nil
}

// GetBalance возвращает текущий баланс пользователя
// Баланс = balance_after последней записи; 0, если записей нет
func (r *Repository) GetBalance(ctx context.Context, userID int64) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("balance_after").
		From("wallet_ledger").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetBalance - build select query: %v", ErrBuildQuery, err)
	}

	var balance float64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetBalance - scan balance: %v", ErrScanRow, err)
	}

	return balance, nil
}

// ListByUser возвращает историю записей леджера пользователя (новые первыми)
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.WalletLedgerEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("wallet_ledger").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.WalletLedgerEntry, 0)
	for rows.Next() {
		var entry domain.WalletLedgerEntry
		var createdAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Direction,
			&entry.Amount,
			&entry.BalanceAfter,
			&entry.Source,
			&entry.ReservationRef,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}

		entry.CreatedAt = createdAt.Time
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
