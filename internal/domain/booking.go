package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents a student's booking of a lesson
type Booking struct {
	ID       int64
	LessonID int64
	UserID   int64

	Status        BookingStatus
	IsWaitingList bool
	// Position позиция в очереди ожидания (1-based)
	// Заполнена тогда и только тогда, когда IsWaitingList = true
	Position *int

	BookedAt    time.Time
	ConfirmedAt *time.Time
	CancelledAt *time.Time

	CancellationReason *string
	CancellationNote   *string

	AttendanceMarked bool
	Attended         *bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking is in an active state (pending or confirmed)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsSeat returns true if the booking occupies a seat counted against lesson capacity
func (b *Booking) IsSeat() bool {
	return b.IsActive() && !b.IsWaitingList
}

// IsWaiting returns true if the booking is waiting in the queue
func (b *Booking) IsWaiting() bool {
	return b.Status == StatusPending && b.IsWaitingList
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsFinished returns true if the booking is completed or was a no-show
func (b *Booking) IsFinished() bool {
	return b.Status == StatusCompleted || b.Status == StatusNoShow
}
