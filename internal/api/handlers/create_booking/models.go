package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-LessonService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	LessonID int64 `json:"lessonId"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64   `json:"id"`
	LessonID    int64   `json:"lessonId"`
	UserID      int64   `json:"userId"`
	Status      string  `json:"status"`
	Waitlisted  bool    `json:"waitlisted"`
	Position    *int    `json:"position,omitempty"`
	BookedAt    string  `json:"bookedAt"`
	ConfirmedAt *string `json:"confirmedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) *createBooking.Request {
	return &createBooking.Request{
		UserID:   userID,
		LessonID: r.LessonID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:         resp.ID,
		LessonID:   resp.LessonID,
		UserID:     resp.UserID,
		Status:     resp.Status,
		Waitlisted: resp.Waitlisted,
		Position:   resp.Position,
		BookedAt:   resp.BookedAt.Format(time.RFC3339),
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.ConfirmedAt != nil {
		confirmedStr := resp.ConfirmedAt.Format(time.RFC3339)
		out.ConfirmedAt = &confirmedStr
	}

	return out
}
