package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/booking"
	lessonRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/lesson"
	"github.com/m04kA/SMC-LessonService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-LessonService/internal/integrations/userservice"
)

// Фейки зависимостей use case

type fakeBookingRepo struct {
	existing    *domain.Booking
	existingErr error
	created     *domain.Booking
	createErr   error
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *booking
	created.ID = 100
	created.CreatedAt = booking.BookedAt
	created.UpdatedAt = booking.BookedAt
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetByUserAndLesson(_ context.Context, _, _ int64) (*domain.Booking, error) {
	if f.existingErr != nil {
		return nil, f.existingErr
	}
	if f.existing == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.existing, nil
}

type fakeLessonRepo struct {
	lesson *domain.Lesson
	err    error
}

func (f *fakeLessonRepo) GetByID(_ context.Context, _ int64) (*domain.Lesson, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lesson, nil
}

type fakeCapacity struct {
	hasCapacity bool
	err         error
}

func (f *fakeCapacity) HasCapacity(_ context.Context, _ *domain.Lesson) (bool, error) {
	return f.hasCapacity, f.err
}

type fakeWaitlist struct {
	nextPosition int
	err          error
}

func (f *fakeWaitlist) NextPosition(_ context.Context, _ int64) (int, error) {
	return f.nextPosition, f.err
}

type fakeUserClient struct {
	err error
}

func (f *fakeUserClient) GetUser(_ context.Context, userID int64) (*userservice.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &userservice.User{ID: userID, IsActive: true}, nil
}

type fakeNotifier struct {
	dispatched []notifyservice.DispatchRequest
}

func (f *fakeNotifier) DispatchBestEffort(_ context.Context, req notifyservice.DispatchRequest) error {
	f.dispatched = append(f.dispatched, req)
	return nil
}

// fakeTxManager выполняет функцию без транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)

func publishedLesson() *domain.Lesson {
	return &domain.Lesson{
		ID:           1,
		InstructorID: 7,
		StartTime:    testNow.Add(25 * time.Hour),
		EndTime:      testNow.Add(26 * time.Hour),
		MaxCapacity:  2,
		Status:       domain.LessonStatusPublished,

		CancellationDeadlineHours: 24,
	}
}

func newTestUseCase(
	bookings *fakeBookingRepo,
	lessons *fakeLessonRepo,
	capacity *fakeCapacity,
	waitlist *fakeWaitlist,
	users *fakeUserClient,
	notifier *fakeNotifier,
) *UseCase {
	uc := NewUseCase(bookings, lessons, capacity, waitlist, users, notifier, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: testNow}
	return uc
}

func TestExecute_ConfirmsWhenSeatAvailable(t *testing.T) {
	bookings := &fakeBookingRepo{}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(
		bookings,
		&fakeLessonRepo{lesson: publishedLesson()},
		&fakeCapacity{hasCapacity: true},
		&fakeWaitlist{},
		&fakeUserClient{},
		notifier,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 5, LessonID: 1})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.False(t, resp.Waitlisted)
	assert.Nil(t, resp.Position)
	require.NotNil(t, resp.ConfirmedAt)
	assert.Equal(t, testNow, *resp.ConfirmedAt)

	require.Len(t, notifier.dispatched, 1)
	assert.Equal(t, notifyservice.KindBookingConfirmed, notifier.dispatched[0].Kind)
}

func TestExecute_WaitlistsWhenFull(t *testing.T) {
	bookings := &fakeBookingRepo{}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(
		bookings,
		&fakeLessonRepo{lesson: publishedLesson()},
		&fakeCapacity{hasCapacity: false},
		&fakeWaitlist{nextPosition: 3},
		&fakeUserClient{},
		notifier,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 5, LessonID: 1})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.True(t, resp.Waitlisted)
	require.NotNil(t, resp.Position)
	assert.Equal(t, 3, *resp.Position)
	assert.Nil(t, resp.ConfirmedAt)

	require.NotNil(t, bookings.created)
	assert.True(t, bookings.created.IsWaitingList)

	require.Len(t, notifier.dispatched, 1)
	assert.Equal(t, notifyservice.KindBookingWaitlisted, notifier.dispatched[0].Kind)
}

func TestExecute_DuplicateBooking(t *testing.T) {
	existing := &domain.Booking{ID: 9, UserID: 5, LessonID: 1, Status: domain.StatusConfirmed}
	uc := newTestUseCase(
		&fakeBookingRepo{existing: existing},
		&fakeLessonRepo{lesson: publishedLesson()},
		&fakeCapacity{hasCapacity: true},
		&fakeWaitlist{},
		&fakeUserClient{},
		&fakeNotifier{},
	)

	_, err := uc.Execute(context.Background(), &Request{UserID: 5, LessonID: 1})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_LessonNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeLessonRepo{err: lessonRepo.ErrLessonNotFound},
		&fakeCapacity{},
		&fakeWaitlist{},
		&fakeUserClient{},
		&fakeNotifier{},
	)

	_, err := uc.Execute(context.Background(), &Request{UserID: 5, LessonID: 1})
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestExecute_LessonNotPublished(t *testing.T) {
	lesson := publishedLesson()
	lesson.Status = domain.LessonStatusDraft

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeLessonRepo{lesson: lesson},
		&fakeCapacity{},
		&fakeWaitlist{},
		&fakeUserClient{},
		&fakeNotifier{},
	)

	_, err := uc.Execute(context.Background(), &Request{UserID: 5, LessonID: 1})
	assert.ErrorIs(t, err, ErrLessonNotBookable)
}

func TestExecute_LessonAlreadyStarted(t *testing.T) {
	lesson := publishedLesson()
	lesson.StartTime = testNow.Add(-time.Minute)
	lesson.EndTime = testNow.Add(59 * time.Minute)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeLessonRepo{lesson: lesson},
		&fakeCapacity{},
		&fakeWaitlist{},
		&fakeUserClient{},
		&fakeNotifier{},
	)

	_, err := uc.Execute(context.Background(), &Request{UserID: 5, LessonID: 1})
	assert.ErrorIs(t, err, ErrLessonAlreadyStarted)
}

func TestExecute_UserNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeLessonRepo{lesson: publishedLesson()},
		&fakeCapacity{},
		&fakeWaitlist{},
		&fakeUserClient{err: userservice.ErrUserNotFound},
		&fakeNotifier{},
	)

	_, err := uc.Execute(context.Background(), &Request{UserID: 5, LessonID: 1})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeLessonRepo{lesson: publishedLesson()},
		&fakeCapacity{},
		&fakeWaitlist{},
		&fakeUserClient{},
		&fakeNotifier{},
	)

	_, err := uc.Execute(context.Background(), &Request{UserID: 0, LessonID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{UserID: 5, LessonID: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_NotificationFailureDoesNotFailBooking(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeLessonRepo{lesson: publishedLesson()},
		&fakeCapacity{hasCapacity: true},
		&fakeWaitlist{},
		&fakeUserClient{},
		&fakeNotifier{},
	)
	// Notifier, который всегда падает
	uc.notifier = failingNotifier{}

	resp, err := uc.Execute(context.Background(), &Request{UserID: 5, LessonID: 1})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

type failingNotifier struct{}

func (failingNotifier) DispatchBestEffort(context.Context, notifyservice.DispatchRequest) error {
	return errors.New("notify service is down")
}
