package cancel_booking

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-LessonService/internal/integrations/userservice"
	capacityService "github.com/m04kA/SMC-LessonService/internal/service/capacity"
	waitlistService "github.com/m04kA/SMC-LessonService/internal/service/waitlist"
	createBooking "github.com/m04kA/SMC-LessonService/internal/usecase/create_booking"
)

// memBookingRepo хранит бронирования в памяти и реализует контракты
// репозитория для create_booking, cancel_booking, capacity и waitlist
type memBookingRepo struct {
	nextID   int64
	bookings map[int64]*domain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{nextID: 1, bookings: make(map[int64]*domain.Booking)}
}

func (m *memBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = m.nextID
	m.nextID++
	m.bookings[created.ID] = &created
	out := created
	return &out, nil
}

func (m *memBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (m *memBookingRepo) GetByUserAndLesson(_ context.Context, userID, lessonID int64) (*domain.Booking, error) {
	for _, b := range m.bookings {
		if b.UserID == userID && b.LessonID == lessonID && b.Status != domain.StatusCancelled {
			out := *b
			return &out, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (m *memBookingRepo) CountSeats(_ context.Context, lessonID int64) (int, error) {
	count := 0
	for _, b := range m.bookings {
		if b.LessonID == lessonID && b.IsSeat() {
			count++
		}
	}
	return count, nil
}

func (m *memBookingRepo) MaxWaitlistPosition(_ context.Context, lessonID int64) (int, error) {
	max := 0
	for _, b := range m.bookings {
		if b.LessonID == lessonID && b.IsWaiting() && b.Position != nil && *b.Position > max {
			max = *b.Position
		}
	}
	return max, nil
}

func (m *memBookingRepo) HeadOfQueue(_ context.Context, lessonID int64) (*domain.Booking, error) {
	var head *domain.Booking
	for _, b := range m.bookings {
		if b.LessonID == lessonID && b.IsWaiting() && b.Position != nil {
			if head == nil || *b.Position < *head.Position {
				head = b
			}
		}
	}
	if head == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	out := *head
	return &out, nil
}

func (m *memBookingRepo) Promote(_ context.Context, id int64) error {
	b, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.StatusConfirmed
	b.IsWaitingList = false
	b.Position = nil
	b.ConfirmedAt = &now
	return nil
}

func (m *memBookingRepo) Cancel(_ context.Context, id int64, reason, note *string) error {
	b, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.IsWaitingList = false
	b.Position = nil
	b.CancelledAt = &now
	b.CancellationReason = reason
	b.CancellationNote = note
	return nil
}

func (m *memBookingRepo) CompactPositionsAfter(_ context.Context, lessonID int64, removedPosition int) error {
	for _, b := range m.bookings {
		if b.LessonID == lessonID && b.IsWaiting() && b.Position != nil && *b.Position > removedPosition {
			newPos := *b.Position - 1
			b.Position = &newPos
		}
	}
	return nil
}

// waitingPositions возвращает отсортированные позиции очереди ожидания занятия
func (m *memBookingRepo) waitingPositions(lessonID int64) []int {
	var positions []int
	for _, b := range m.bookings {
		if b.LessonID == lessonID && b.IsWaiting() && b.Position != nil {
			positions = append(positions, *b.Position)
		}
	}
	sort.Ints(positions)
	return positions
}

type memLessonRepo struct {
	lesson *domain.Lesson
}

func (m *memLessonRepo) GetByID(_ context.Context, _ int64) (*domain.Lesson, error) {
	return m.lesson, nil
}

type okUserClient struct{}

func (okUserClient) GetUser(_ context.Context, userID int64) (*userservice.User, error) {
	return &userservice.User{ID: userID, IsActive: true}, nil
}

type collectingNotifier struct {
	dispatched []notifyservice.DispatchRequest
}

func (c *collectingNotifier) DispatchBestEffort(_ context.Context, req notifyservice.DispatchRequest) error {
	c.dispatched = append(c.dispatched, req)
	return nil
}

// TestBookingFlow_LastSeatThenPromotion прогоняет полный сценарий:
// занятие на одно место, A занимает место, B уходит в очередь,
// A отменяет - B продвигается на освободившееся место
func TestBookingFlow_LastSeatThenPromotion(t *testing.T) {
	now := time.Now().UTC()
	lesson := &domain.Lesson{
		ID:          1,
		StartTime:   now.Add(48 * time.Hour),
		EndTime:     now.Add(49 * time.Hour),
		MaxCapacity: 1,
		Status:      domain.LessonStatusPublished,

		CancellationDeadlineHours: 24,
	}

	repo := newMemBookingRepo()
	lessons := &memLessonRepo{lesson: lesson}
	notifier := &collectingNotifier{}
	logger := nopLogger{}

	capacity := capacityService.NewService(repo, logger)
	waitlist := waitlistService.NewService(repo, logger)

	createUC := createBooking.NewUseCase(repo, lessons, capacity, waitlist, okUserClient{}, notifier, fakeTxManager{}, logger)
	cancelUC := NewUseCase(repo, lessons, waitlist, notifier, fakeTxManager{}, logger)
	cancelUC.timeProvider = fixedTimeProvider{now: now}

	ctx := context.Background()

	// A занимает последнее место
	respA, err := createUC.Execute(ctx, &createBooking.Request{UserID: 1, LessonID: 1})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), respA.Status)
	assert.False(t, respA.Waitlisted)

	// B уходит в очередь на позицию 1
	respB, err := createUC.Execute(ctx, &createBooking.Request{UserID: 2, LessonID: 1})
	require.NoError(t, err)
	assert.True(t, respB.Waitlisted)
	require.NotNil(t, respB.Position)
	assert.Equal(t, 1, *respB.Position)

	// C уходит в очередь на позицию 2
	respC, err := createUC.Execute(ctx, &createBooking.Request{UserID: 3, LessonID: 1})
	require.NoError(t, err)
	require.NotNil(t, respC.Position)
	assert.Equal(t, 2, *respC.Position)

	// A отменяет - B подтверждается, очередь сжимается до {1}
	cancelResp, err := cancelUC.Execute(ctx, &Request{BookingID: respA.ID, ActorID: 1})
	require.NoError(t, err)
	require.NotNil(t, cancelResp.PromotedBookingID)
	assert.Equal(t, respB.ID, *cancelResp.PromotedBookingID)

	promoted, err := repo.GetByID(ctx, respB.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, promoted.Status)
	assert.False(t, promoted.IsWaitingList)
	assert.Nil(t, promoted.Position)

	// Позиции очереди непрерывны начиная с 1
	assert.Equal(t, []int{1}, repo.waitingPositions(1))

	// Место снова занято: следующий студент уходит в очередь
	respD, err := createUC.Execute(ctx, &createBooking.Request{UserID: 4, LessonID: 1})
	require.NoError(t, err)
	assert.True(t, respD.Waitlisted)
	require.NotNil(t, respD.Position)
	assert.Equal(t, 2, *respD.Position)

	// Уведомления: подтверждение A, очередь B/C, продвижение B, очередь D
	kinds := make([]notifyservice.TemplateKind, 0, len(notifier.dispatched))
	for _, d := range notifier.dispatched {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, notifyservice.KindWaitlistPromoted)
}

// TestBookingFlow_MidQueueCancelKeepsPositionsContiguous проверяет, что
// уход из середины очереди не оставляет пропусков в позициях
func TestBookingFlow_MidQueueCancelKeepsPositionsContiguous(t *testing.T) {
	now := time.Now().UTC()
	lesson := &domain.Lesson{
		ID:          1,
		StartTime:   now.Add(48 * time.Hour),
		EndTime:     now.Add(49 * time.Hour),
		MaxCapacity: 1,
		Status:      domain.LessonStatusPublished,

		CancellationDeadlineHours: 24,
	}

	repo := newMemBookingRepo()
	lessons := &memLessonRepo{lesson: lesson}
	notifier := &collectingNotifier{}
	logger := nopLogger{}

	capacity := capacityService.NewService(repo, logger)
	waitlist := waitlistService.NewService(repo, logger)

	createUC := createBooking.NewUseCase(repo, lessons, capacity, waitlist, okUserClient{}, notifier, fakeTxManager{}, logger)
	cancelUC := NewUseCase(repo, lessons, waitlist, notifier, fakeTxManager{}, logger)
	cancelUC.timeProvider = fixedTimeProvider{now: now}

	ctx := context.Background()

	// Место + очередь из трёх
	_, err := createUC.Execute(ctx, &createBooking.Request{UserID: 1, LessonID: 1})
	require.NoError(t, err)

	var queueIDs []int64
	for userID := int64(2); userID <= 4; userID++ {
		resp, err := createUC.Execute(ctx, &createBooking.Request{UserID: userID, LessonID: 1})
		require.NoError(t, err)
		require.True(t, resp.Waitlisted)
		queueIDs = append(queueIDs, resp.ID)
	}
	require.Equal(t, []int{1, 2, 3}, repo.waitingPositions(1))

	// Отменяет второй в очереди
	_, err = cancelUC.Execute(ctx, &Request{BookingID: queueIDs[1], ActorID: 3})
	require.NoError(t, err)

	// Позиции сжались до {1, 2}
	assert.Equal(t, []int{1, 2}, repo.waitingPositions(1))

	head, err := repo.HeadOfQueue(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, queueIDs[0], head.ID)
}
