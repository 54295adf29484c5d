package cancel_booking

import "time"

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64
	ActorID   int64
	IsAdmin   bool
	Reason    *string
	Note      *string
}

// Response модель ответа на отмену бронирования
type Response struct {
	ID          int64      `json:"id"`
	LessonID    int64      `json:"lesson_id"`
	UserID      int64      `json:"user_id"`
	Status      string     `json:"status"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	// PromotedBookingID заполняется, если отмена освободила место
	// и первый в очереди ожидания был подтверждён
	PromotedBookingID *int64 `json:"promoted_booking_id,omitempty"`
}
