package mark_attendance

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LessonService/internal/api/handlers"
	"github.com/m04kA/SMC-LessonService/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgEmptyBookingIDs    = "список бронирований пуст"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/attendance
// Только для админа (через middleware RequireAdmin)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req MarkAttendanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/attendance - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.MarkAttendance(r.Context(), req.ToServiceRequest()); err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/attendance - Empty booking ids")
			handlers.RespondBadRequest(w, msgEmptyBookingIDs)

		default:
			h.logger.Error("POST /bookings/attendance - Failed to mark attendance: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/attendance - Attendance marked: count=%d, attended=%t",
		len(req.BookingIDs), req.Attended)
	w.WriteHeader(http.StatusNoContent)
}
