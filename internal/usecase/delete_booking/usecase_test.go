package delete_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonService/internal/integrations/notifyservice"
)

// Фейки зависимостей use case

type fakeBookingRepo struct {
	booking  *domain.Booking
	getErr   error
	deleted  []int64
	promoted []int64
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBookingRepo) Promote(_ context.Context, id int64) error {
	f.promoted = append(f.promoted, id)
	return nil
}

type fakeLessonRepo struct {
	lesson *domain.Lesson
}

func (f *fakeLessonRepo) GetByID(_ context.Context, _ int64) (*domain.Lesson, error) {
	return f.lesson, nil
}

type fakeWaitlist struct {
	head           *domain.Booking
	compactedAfter []int
}

func (f *fakeWaitlist) HeadOfQueue(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.head, nil
}

func (f *fakeWaitlist) CompactAfter(_ context.Context, _ int64, removedPosition int) error {
	f.compactedAfter = append(f.compactedAfter, removedPosition)
	return nil
}

type fakeNotifier struct {
	dispatched []notifyservice.DispatchRequest
}

func (f *fakeNotifier) DispatchBestEffort(_ context.Context, req notifyservice.DispatchRequest) error {
	f.dispatched = append(f.dispatched, req)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testLesson() *domain.Lesson {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	return &domain.Lesson{
		ID:          1,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		MaxCapacity: 1,
		Status:      domain.LessonStatusPublished,
	}
}

func TestExecute_DeleteSeatPromotesHead(t *testing.T) {
	seat := &domain.Booking{ID: 10, LessonID: 1, UserID: 5, Status: domain.StatusConfirmed}
	headPos := 1
	head := &domain.Booking{ID: 20, LessonID: 1, UserID: 7, Status: domain.StatusPending, IsWaitingList: true, Position: &headPos}

	bookings := &fakeBookingRepo{booking: seat}
	waitlist := &fakeWaitlist{head: head}
	notifier := &fakeNotifier{}
	uc := NewUseCase(bookings, &fakeLessonRepo{lesson: testLesson()}, waitlist, notifier, fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 10})
	require.NoError(t, err)

	assert.Equal(t, []int64{10}, bookings.deleted)
	assert.Equal(t, []int64{20}, bookings.promoted)
	assert.Equal(t, []int{1}, waitlist.compactedAfter)

	require.NotNil(t, resp.PromotedBookingID)
	assert.Equal(t, int64(20), *resp.PromotedBookingID)

	require.Len(t, notifier.dispatched, 1)
	assert.Equal(t, notifyservice.KindWaitlistPromoted, notifier.dispatched[0].Kind)
}

func TestExecute_DeleteWaitlistedCompactsPositions(t *testing.T) {
	pos := 2
	waitlisted := &domain.Booking{
		ID:            11,
		LessonID:      1,
		UserID:        5,
		Status:        domain.StatusPending,
		IsWaitingList: true,
		Position:      &pos,
	}

	bookings := &fakeBookingRepo{booking: waitlisted}
	waitlist := &fakeWaitlist{}
	uc := NewUseCase(bookings, &fakeLessonRepo{lesson: testLesson()}, waitlist, &fakeNotifier{}, fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 11})
	require.NoError(t, err)

	assert.Equal(t, []int64{11}, bookings.deleted)
	assert.Equal(t, []int{2}, waitlist.compactedAfter)
	assert.Empty(t, bookings.promoted)
	assert.Nil(t, resp.PromotedBookingID)
}

func TestExecute_DeleteCancelledBookingDoesNotTouchQueue(t *testing.T) {
	cancelled := &domain.Booking{ID: 12, LessonID: 1, UserID: 5, Status: domain.StatusCancelled}

	bookings := &fakeBookingRepo{booking: cancelled}
	waitlist := &fakeWaitlist{}
	uc := NewUseCase(bookings, &fakeLessonRepo{lesson: testLesson()}, waitlist, &fakeNotifier{}, fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 12})
	require.NoError(t, err)

	assert.Equal(t, []int64{12}, bookings.deleted)
	assert.Empty(t, bookings.promoted)
	assert.Empty(t, waitlist.compactedAfter)
}

func TestExecute_BookingNotFound(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}, &fakeLessonRepo{lesson: testLesson()}, &fakeWaitlist{}, &fakeNotifier{}, fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 404})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeLessonRepo{lesson: testLesson()}, &fakeWaitlist{}, &fakeNotifier{}, fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
