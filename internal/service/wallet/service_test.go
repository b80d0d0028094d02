package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/wallet/models"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// --- фейки ---

type fakeLedgerRepo struct {
	entries []*domain.WalletLedgerEntry
}

func (f *fakeLedgerRepo) Append(_ context.Context, entry *domain.WalletLedgerEntry) (*domain.WalletLedgerEntry, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeLedgerRepo) GetBalance(_ context.Context, _ int64) (float64, error) {
	if len(f.entries) == 0 {
		return 0, nil
	}
	return f.entries[len(f.entries)-1].BalanceAfter, nil
}

func (f *fakeLedgerRepo) ListByUser(_ context.Context, _ int64) ([]*domain.WalletLedgerEntry, error) {
	// Новые первыми, как в хранилище
	out := make([]*domain.WalletLedgerEntry, 0, len(f.entries))
	for i := len(f.entries) - 1; i >= 0; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

type fakeReservationRepo struct {
	byReference map[string]*domain.Reservation
	paid        []int64
}

func (f *fakeReservationRepo) GetByReference(_ context.Context, reference string) (*domain.Reservation, error) {
	res, ok := f.byReference[reference]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res, nil
}

func (f *fakeReservationRepo) MarkPaid(_ context.Context, id int64) error {
	f.paid = append(f.paid, id)
	return nil
}

type fakeAuditRepo struct {
	entries []*domain.AuditEntry
}

func (f *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

type fakeNotifyClient struct {
	sent []notifyservice.Notification
}

func (f *fakeNotifyClient) SendWithGracefulDegradation(_ context.Context, n notifyservice.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- фикстура ---

type fixture struct {
	ledger       *fakeLedgerRepo
	reservations *fakeReservationRepo
	audit        *fakeAuditRepo
	notify       *fakeNotifyClient
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		ledger:       &fakeLedgerRepo{},
		reservations: &fakeReservationRepo{byReference: map[string]*domain.Reservation{}},
		audit:        &fakeAuditRepo{},
		notify:       &fakeNotifyClient{},
	}
	f.svc = NewService(f.ledger, f.reservations, f.audit, f.notify, passthroughTx{}, nopLogger{})
	return f
}

func (f *fixture) topUp(t *testing.T, userID int64, amount float64) {
	t.Helper()
	_, err := f.svc.TopUp(context.Background(), &models.TopUpRequest{UserID: userID, Amount: amount})
	require.NoError(t, err)
}

func payableReservation(ref string, userID int64, amount float64) *domain.Reservation {
	return &domain.Reservation{
		ID:            1,
		Reference:     ref,
		UserID:        userID,
		BusinessID:    10,
		ServiceID:     2,
		BookingDate:   time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
		StartTime:     types.TimeString("10:00"),
		Amount:        amount,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
	}
}

// --- тесты ---

func TestTopUp(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.TopUp(context.Background(), &models.TopUpRequest{UserID: 100, Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.Balance)

	resp, err = f.svc.TopUp(context.Background(), &models.TopUpRequest{UserID: 100, Amount: 30})
	require.NoError(t, err)
	assert.Equal(t, 80.0, resp.Balance)

	require.Len(t, f.ledger.entries, 2)
	assert.Equal(t, domain.LedgerCredit, f.ledger.entries[0].Direction)
	assert.Equal(t, domain.SourceTopUp, f.ledger.entries[0].Source)

	require.Len(t, f.audit.entries, 2)
	assert.Equal(t, domain.AuditWalletTopUp, f.audit.entries[0].Action)
}

func TestTopUp_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.TopUp(context.Background(), &models.TopUpRequest{UserID: 0, Amount: 50})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.TopUp(context.Background(), &models.TopUpRequest{UserID: 100, Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.TopUp(context.Background(), &models.TopUpRequest{UserID: 100, Amount: -10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPay_Success(t *testing.T) {
	f := newFixture()
	f.topUp(t, 100, 120)
	f.reservations.byReference["r1"] = payableReservation("r1", 100, 50)

	resp, err := f.svc.Pay(context.Background(), "r1", &models.PayRequest{UserID: 100})

	require.NoError(t, err)
	assert.Equal(t, "r1", resp.Reference)
	assert.Equal(t, 50.0, resp.Amount)
	assert.Equal(t, 70.0, resp.Balance)

	assert.Equal(t, []int64{1}, f.reservations.paid)

	// Списание в леджере
	require.Len(t, f.ledger.entries, 2)
	debit := f.ledger.entries[1]
	assert.Equal(t, domain.LedgerDebit, debit.Direction)
	assert.Equal(t, domain.SourceReservation, debit.Source)
	assert.Equal(t, 70.0, debit.BalanceAfter)
	require.NotNil(t, debit.ReservationRef)
	assert.Equal(t, "r1", *debit.ReservationRef)

	// Аудит и уведомление
	require.Len(t, f.audit.entries, 2)
	assert.Equal(t, domain.AuditReservationPaid, f.audit.entries[1].Action)
	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, notifyservice.TemplateReservationConfirmed, f.notify.sent[0].Template)
}

func TestPay_InsufficientFunds(t *testing.T) {
	f := newFixture()
	f.topUp(t, 100, 80)
	f.reservations.byReference["r1"] = payableReservation("r1", 100, 120)

	_, err := f.svc.Pay(context.Background(), "r1", &models.PayRequest{UserID: 100})

	var shortage *domain.BalanceShortage
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, 40.0, shortage.Shortage)
	assert.Equal(t, domain.BalanceWallet, shortage.Kind)
	assert.NotEmpty(t, shortage.Options)

	// Состояние кошелька и бронирования не изменилось
	assert.Len(t, f.ledger.entries, 1)
	assert.Empty(t, f.reservations.paid)
	assert.Empty(t, f.notify.sent)
}

func TestPay_Rejections(t *testing.T) {
	f := newFixture()
	f.topUp(t, 100, 500)

	f.reservations.byReference["missing-owner"] = payableReservation("missing-owner", 200, 50)
	_, err := f.svc.Pay(context.Background(), "missing-owner", &models.PayRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrAccessDenied)

	paid := payableReservation("paid", 100, 50)
	paid.PaymentStatus = domain.PaymentPaid
	f.reservations.byReference["paid"] = paid
	_, err = f.svc.Pay(context.Background(), "paid", &models.PayRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	cancelled := payableReservation("cancelled", 100, 50)
	cancelled.Status = domain.StatusCancelled
	f.reservations.byReference["cancelled"] = cancelled
	_, err = f.svc.Pay(context.Background(), "cancelled", &models.PayRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrNotPayable)

	completed := payableReservation("completed", 100, 50)
	completed.Status = domain.StatusCompleted
	f.reservations.byReference["completed"] = completed
	_, err = f.svc.Pay(context.Background(), "completed", &models.PayRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrNotPayable)

	_, err = f.svc.Pay(context.Background(), "unknown", &models.PayRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestStatement(t *testing.T) {
	f := newFixture()
	f.topUp(t, 100, 50)
	f.topUp(t, 100, 30)

	statement, err := f.svc.Statement(context.Background(), 100)

	require.NoError(t, err)
	assert.Equal(t, 80.0, statement.Balance)
	require.Len(t, statement.Entries, 2)

	// Новые записи первыми
	assert.Equal(t, 80.0, statement.Entries[0].BalanceAfter)
	assert.Equal(t, 50.0, statement.Entries[1].BalanceAfter)
}

func TestStatement_EmptyWallet(t *testing.T) {
	f := newFixture()

	statement, err := f.svc.Statement(context.Background(), 100)

	require.NoError(t, err)
	assert.Equal(t, 0.0, statement.Balance)
	assert.Empty(t, statement.Entries)
}
