package sweep_expired

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type fakeReservations struct {
	candidates  []*domain.Reservation
	cancelled   []int64
	failOnID    int64
	requestedAt time.Time
}

func (f *fakeReservations) FindPendingCreatedBefore(_ context.Context, cutoff time.Time) ([]*domain.Reservation, error) {
	f.requestedAt = cutoff

	// Отменённые перестают быть pending и в выборку не попадают
	var pending []*domain.Reservation
	for _, res := range f.candidates {
		if !f.isCancelled(res.ID) {
			pending = append(pending, res)
		}
	}
	return pending, nil
}

func (f *fakeReservations) isCancelled(id int64) bool {
	for _, cancelled := range f.cancelled {
		if cancelled == id {
			return true
		}
	}
	return false
}

func (f *fakeReservations) Cancel(_ context.Context, id int64, actor domain.CancelActor, reason string) error {
	if f.failOnID != 0 && id == f.failOnID {
		return errors.New("deadlock detected")
	}
	if actor != domain.CancelledBySystem {
		return errors.New("unexpected actor")
	}
	_ = reason
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeAudit struct {
	entries []*domain.AuditEntry
}

func (f *fakeAudit) Append(_ context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

type fakePayments struct {
	released []string
}

func (f *fakePayments) ReleaseAuthorizationWithGracefulDegradation(_ context.Context, authRef string) error {
	f.released = append(f.released, authRef)
	return nil
}

type fakeNotify struct {
	sent []notifyservice.Notification
}

func (f *fakeNotify) SendWithGracefulDegradation(_ context.Context, n notifyservice.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var sweepNow = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

func pendingReservation(id int64, ref string, createdAt time.Time, bookingDate time.Time, start string) *domain.Reservation {
	return &domain.Reservation{
		ID:          id,
		Reference:   ref,
		UserID:      100,
		Amount:      50,
		Status:      domain.StatusPending,
		BookingDate: bookingDate,
		StartTime:   types.TimeString(start),
		CreatedAt:   createdAt,
	}
}

type sweepFixture struct {
	reservations *fakeReservations
	audit        *fakeAudit
	payments     *fakePayments
	notify       *fakeNotify
	uc           *Usecase
}

func newSweepFixture() *sweepFixture {
	f := &sweepFixture{
		reservations: &fakeReservations{},
		audit:        &fakeAudit{},
		payments:     &fakePayments{},
		notify:       &fakeNotify{},
	}
	f.uc = New(f.reservations, f.audit, f.payments, f.notify, passthroughTx{}, &fixedTime{now: sweepNow}, nopLogger{})
	return f
}

func TestExecute_CancelsAgedPending(t *testing.T) {
	f := newSweepFixture()

	authRef := "auth-1"
	aged := pendingReservation(1, "aged", sweepNow.Add(-30*time.Hour), sweepNow.AddDate(0, 0, 3), "10:00")
	aged.PaymentAuthRef = &authRef
	f.reservations.candidates = []*domain.Reservation{aged}

	report, err := f.uc.Execute(context.Background(), Request{Notify: true})

	require.NoError(t, err)
	assert.Equal(t, 1, report.CancelledCount)
	assert.Equal(t, 0, report.FailedCount)
	assert.Equal(t, 50.0, report.TotalAmountReleased)
	assert.Equal(t, []string{"aged"}, report.CancelledRefs)

	// Отмена зафиксирована, холд снят, пользователь уведомлён
	assert.Equal(t, []int64{1}, f.reservations.cancelled)
	assert.Equal(t, []string{"auth-1"}, f.payments.released)
	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, notifyservice.TemplateReservationExpired, f.notify.sent[0].Template)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "system", f.audit.entries[0].Actor)
	assert.Equal(t, domain.AuditReservationExpired, f.audit.entries[0].Action)
}

func TestExecute_DefaultCutoff(t *testing.T) {
	f := newSweepFixture()

	_, err := f.uc.Execute(context.Background(), Request{})
	require.NoError(t, err)

	assert.Equal(t, sweepNow.Add(-domain.DefaultExpirationHours*time.Hour), f.reservations.requestedAt)
}

func TestExecute_CustomExpirationHours(t *testing.T) {
	f := newSweepFixture()

	_, err := f.uc.Execute(context.Background(), Request{ExpirationHours: 48})
	require.NoError(t, err)

	assert.Equal(t, sweepNow.Add(-48*time.Hour), f.reservations.requestedAt)
}

func TestExecute_SkipsStartedSlot(t *testing.T) {
	f := newSweepFixture()

	// Бронирование старое, но слот уже начался
	started := pendingReservation(1, "started", sweepNow.Add(-30*time.Hour), sweepNow, "11:00")
	f.reservations.candidates = []*domain.Reservation{started}

	report, err := f.uc.Execute(context.Background(), Request{})

	require.NoError(t, err)
	assert.Equal(t, 0, report.CancelledCount)
	assert.Empty(t, f.reservations.cancelled)
	assert.Empty(t, f.notify.sent)
}

func TestExecute_DryRunMakesNoChanges(t *testing.T) {
	f := newSweepFixture()

	aged := pendingReservation(1, "aged", sweepNow.Add(-30*time.Hour), sweepNow.AddDate(0, 0, 3), "10:00")
	f.reservations.candidates = []*domain.Reservation{aged}

	report, err := f.uc.Execute(context.Background(), Request{DryRun: true})

	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.CancelledCount)
	assert.Equal(t, []string{"aged"}, report.CancelledRefs)

	// Никаких мутаций и внешних вызовов
	assert.Empty(t, f.reservations.cancelled)
	assert.Empty(t, f.audit.entries)
	assert.Empty(t, f.payments.released)
	assert.Empty(t, f.notify.sent)
}

func TestExecute_FailureDoesNotStopSweep(t *testing.T) {
	f := newSweepFixture()
	f.reservations.failOnID = 1

	f.reservations.candidates = []*domain.Reservation{
		pendingReservation(1, "bad", sweepNow.Add(-30*time.Hour), sweepNow.AddDate(0, 0, 3), "10:00"),
		pendingReservation(2, "good", sweepNow.Add(-40*time.Hour), sweepNow.AddDate(0, 0, 4), "10:00"),
	}

	report, err := f.uc.Execute(context.Background(), Request{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.CancelledCount)
	assert.Equal(t, 1, report.FailedCount)
	assert.Equal(t, []string{"good"}, report.CancelledRefs)
	assert.Equal(t, []int64{2}, f.reservations.cancelled)
}

func TestExecute_NoAuthRefSkipsRelease(t *testing.T) {
	f := newSweepFixture()

	f.reservations.candidates = []*domain.Reservation{
		pendingReservation(1, "no-hold", sweepNow.Add(-30*time.Hour), sweepNow.AddDate(0, 0, 3), "10:00"),
	}

	_, err := f.uc.Execute(context.Background(), Request{Notify: true})

	require.NoError(t, err)
	assert.Empty(t, f.payments.released)
	assert.Len(t, f.notify.sent, 1)
}

func TestExecute_NotifyDisabled(t *testing.T) {
	f := newSweepFixture()

	authRef := "auth-1"
	aged := pendingReservation(1, "aged", sweepNow.Add(-30*time.Hour), sweepNow.AddDate(0, 0, 3), "10:00")
	aged.PaymentAuthRef = &authRef
	f.reservations.candidates = []*domain.Reservation{aged}

	report, err := f.uc.Execute(context.Background(), Request{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.CancelledCount)

	// Холд снимается всегда, уведомление только по флагу
	assert.Equal(t, []string{"auth-1"}, f.payments.released)
	assert.Empty(t, f.notify.sent)
}

func TestExecute_RepeatedSweepIsIdempotent(t *testing.T) {
	f := newSweepFixture()

	f.reservations.candidates = []*domain.Reservation{
		pendingReservation(1, "aged", sweepNow.Add(-30*time.Hour), sweepNow.AddDate(0, 0, 3), "10:00"),
	}

	first, err := f.uc.Execute(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.CancelledCount)

	// Повторный проход сразу после первого не находит кандидатов
	second, err := f.uc.Execute(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.CancelledCount)
	assert.Equal(t, 0, second.FailedCount)
	assert.Empty(t, second.CancelledRefs)
	assert.Equal(t, []int64{1}, f.reservations.cancelled)
	assert.Len(t, f.audit.entries, 1)
}

func TestExecute_NegativeHoursRejected(t *testing.T) {
	f := newSweepFixture()

	_, err := f.uc.Execute(context.Background(), Request{ExpirationHours: -1})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
