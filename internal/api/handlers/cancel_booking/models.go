package cancel_booking

import (
	"time"

	cancelBooking "github.com/m04kA/SMC-LessonService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID                int64   `json:"id"`
	LessonID          int64   `json:"lessonId"`
	UserID            int64   `json:"userId"`
	Status            string  `json:"status"`
	CancelledAt       *string `json:"cancelledAt,omitempty"`
	PromotedBookingID *int64  `json:"promotedBookingId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID, actorID int64, isAdmin bool) *cancelBooking.Request {
	return &cancelBooking.Request{
		BookingID: bookingID,
		ActorID:   actorID,
		IsAdmin:   isAdmin,
		Reason:    r.Reason,
		Note:      r.Note,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	out := &CancelBookingResponse{
		ID:                resp.ID,
		LessonID:          resp.LessonID,
		UserID:            resp.UserID,
		Status:            resp.Status,
		PromotedBookingID: resp.PromotedBookingID,
	}

	if resp.CancelledAt != nil {
		cancelledStr := resp.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &cancelledStr
	}

	return out
}
