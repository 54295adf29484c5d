package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-LessonService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-LessonService/internal/usecase/get_available_slots"
)

const (
	msgInvalidInstructorID = "некорректный ID инструктора"
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidLessonID     = "некорректный ID занятия"
	msgInvalidInput        = "некорректные входные данные"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/instructors/{instructorId}/availability
// Query params: date (required, YYYY-MM-DD), excludeLessonId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем instructorId из URL
	instructorID, err := strconv.ParseInt(vars["instructorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /instructors/{id}/availability - Invalid instructor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInstructorID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /instructors/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Извлекаем excludeLessonId из query параметров (опционально)
	var excludeLessonID *int64
	if excludeStr := r.URL.Query().Get("excludeLessonId"); excludeStr != "" {
		excludeID, err := strconv.ParseInt(excludeStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /instructors/{id}/availability - Invalid exclude lesson ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLessonID)
			return
		}
		excludeLessonID = &excludeID
	}

	// Формируем запрос к use case (с парсингом даты)
	useCaseReq, err := ToUseCaseRequest(instructorID, dateStr, excludeLessonID)
	if err != nil {
		h.logger.Warn("GET /instructors/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /instructors/{id}/availability - Invalid input: instructor_id=%d", instructorID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /instructors/{id}/availability - Failed to get slots: instructor_id=%d, error=%v",
				instructorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /instructors/{id}/availability - Slots retrieved successfully: instructor_id=%d, date=%s, slots_count=%d",
		instructorID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
