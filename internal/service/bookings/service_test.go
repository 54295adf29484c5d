package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonService/internal/service/bookings/models"
)

type fakeBookingRepo struct {
	booking       *domain.Booking
	bookings      []*domain.Booking
	getErr        error
	updateErr     error
	updatedStatus *domain.BookingStatus
	attendanceIDs []int64
	attended      *bool
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByUserID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.bookings, nil
}

func (f *fakeBookingRepo) GetByLessonID(_ context.Context, _ int64, _ bool) ([]*domain.Booking, error) {
	return f.bookings, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus, _, _ *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedStatus = &status
	return nil
}

func (f *fakeBookingRepo) SetAttendance(_ context.Context, ids []int64, attended bool) error {
	f.attendanceIDs = ids
	f.attended = &attended
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:       10,
		LessonID: 1,
		UserID:   5,
		Status:   domain.StatusConfirmed,
		BookedAt: time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestService_GetByID_OwnerAccess(t *testing.T) {
	svc := NewService(&fakeBookingRepo{booking: testBooking()}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 10, 5, false)
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
}

func TestService_GetByID_ForeignUserDenied(t *testing.T) {
	svc := NewService(&fakeBookingRepo{booking: testBooking()}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 10, 6, false)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetByID_AdminSeesAny(t *testing.T) {
	svc := NewService(&fakeBookingRepo{booking: testBooking()}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 10, 99, true)
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 404, 5, false)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_GetUserBookings_InvalidStatus(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, nopLogger{})

	badStatus := "telepathic"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 5, Status: &badStatus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetUserBookings_EmptyList(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, nopLogger{})

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 5})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)
	assert.NotNil(t, resp.Bookings)
}

func TestService_UpdateStatus(t *testing.T) {
	t.Run("valid status applied", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: testBooking()}
		svc := NewService(repo, nopLogger{})

		err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{Status: "no_show"})
		require.NoError(t, err)
		require.NotNil(t, repo.updatedStatus)
		assert.Equal(t, domain.StatusNoShow, *repo.updatedStatus)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: testBooking()}
		svc := NewService(repo, nopLogger{})

		err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{Status: "vanished"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Nil(t, repo.updatedStatus)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewService(&fakeBookingRepo{updateErr: bookingRepo.ErrBookingNotFound}, nopLogger{})

		err := svc.UpdateStatus(context.Background(), 404, &models.UpdateStatusRequest{Status: "confirmed"})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_MarkAttendance(t *testing.T) {
	t.Run("marks given bookings", func(t *testing.T) {
		repo := &fakeBookingRepo{}
		svc := NewService(repo, nopLogger{})

		err := svc.MarkAttendance(context.Background(), &models.MarkAttendanceRequest{
			BookingIDs: []int64{1, 2, 3},
			Attended:   true,
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, repo.attendanceIDs)
		require.NotNil(t, repo.attended)
		assert.True(t, *repo.attended)
	})

	t.Run("empty list rejected", func(t *testing.T) {
		svc := NewService(&fakeBookingRepo{}, nopLogger{})

		err := svc.MarkAttendance(context.Background(), &models.MarkAttendanceRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
