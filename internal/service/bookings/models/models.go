package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-LessonService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetLessonBookingsRequest запрос на получение бронирований занятия
type GetLessonBookingsRequest struct {
	LessonID        int64 `json:"lessonId"`
	IncludeInactive bool  `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// MarkAttendanceRequest запрос на отметку посещаемости
type MarkAttendanceRequest struct {
	BookingIDs []int64 `json:"bookingIds"`
	Attended   bool    `json:"attended"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64  `json:"id"`
	LessonID      int64  `json:"lessonId"`
	UserID        int64  `json:"userId"`
	Status        string `json:"status"`
	IsWaitingList bool   `json:"isWaitingList"`
	Position      *int   `json:"position,omitempty"`

	BookedAt    time.Time `json:"bookedAt"`
	ConfirmedAt *string   `json:"confirmedAt,omitempty"` // ISO 8601 format
	CancelledAt *string   `json:"cancelledAt,omitempty"` // ISO 8601 format

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancellationNote   *string `json:"cancellationNote,omitempty"`

	AttendanceMarked bool  `json:"attendanceMarked"`
	Attended         *bool `json:"attended,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		LessonID:           b.LessonID,
		UserID:             b.UserID,
		Status:             string(b.Status),
		IsWaitingList:      b.IsWaitingList,
		Position:           b.Position,
		BookedAt:           b.BookedAt,
		CancellationReason: b.CancellationReason,
		CancellationNote:   b.CancellationNote,
		AttendanceMarked:   b.AttendanceMarked,
		Attended:           b.Attended,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем временные метки в строки ISO 8601
	if b.ConfirmedAt != nil {
		confirmedStr := b.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &confirmedStr
	}
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	for _, valid := range domain.ValidStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
