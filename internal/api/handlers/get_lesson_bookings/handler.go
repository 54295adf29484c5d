package get_lesson_bookings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-LessonService/internal/api/handlers"
	"github.com/m04kA/SMC-LessonService/internal/service/bookings/models"
)

const (
	msgInvalidLessonID = "некорректный ID занятия"
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

// Handle GET /api/v1/lessons/{lessonId}/bookings
// Только для админа (через middleware RequireAdmin)
// Места идут первыми, затем очередь ожидания по позициям
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем lessonId из URL
	vars := mux.Vars(r)
	lessonID, err := strconv.ParseInt(vars["lessonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /lessons/{lessonId}/bookings - Invalid lesson ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLessonID)
		return
	}

	// Получаем includeInactive из query параметров (опционально)
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	// Формируем запрос к сервису
	serviceReq := &models.GetLessonBookingsRequest{
		LessonID:        lessonID,
		IncludeInactive: includeInactive,
	}

	// Получаем бронирования занятия
	result, err := h.service.GetLessonBookings(r.Context(), serviceReq)
	if err != nil {
		h.logger.Error("GET /lessons/{lessonId}/bookings - Failed to get bookings: lesson_id=%d, error=%v",
			lessonID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /lessons/{lessonId}/bookings - Bookings retrieved successfully: lesson_id=%d, count=%d",
		lessonID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
