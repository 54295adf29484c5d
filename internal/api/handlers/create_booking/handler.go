package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LessonService/internal/api/handlers"
	"github.com/m04kA/SMC-LessonService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-LessonService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgLessonNotFound       = "занятие не найдено"
	msgUserNotFound         = "пользователь не найден"
	msgLessonNotBookable    = "занятие недоступно для записи"
	msgLessonAlreadyStarted = "занятие уже началось"
	msgDuplicateBooking     = "у вас уже есть запись на это занятие"
	msgInvalidInput         = "некорректные входные данные"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrLessonNotFound):
			h.logger.Warn("POST /bookings - Lesson not found: lesson_id=%d", req.LessonID)
			handlers.RespondNotFound(w, msgLessonNotFound)

		case errors.Is(err, createBooking.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createBooking.ErrLessonNotBookable):
			h.logger.Warn("POST /bookings - Lesson not bookable: lesson_id=%d", req.LessonID)
			handlers.RespondBadRequest(w, msgLessonNotBookable)

		case errors.Is(err, createBooking.ErrLessonAlreadyStarted):
			h.logger.Warn("POST /bookings - Lesson already started: lesson_id=%d", req.LessonID)
			handlers.RespondBadRequest(w, msgLessonAlreadyStarted)

		case errors.Is(err, createBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: user_id=%d, lesson_id=%d", userID, req.LessonID)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateBooking)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, lesson_id=%d", userID, req.LessonID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, lesson_id=%d, error=%v",
				userID, req.LessonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, lesson_id=%d, waitlisted=%t",
		result.ID, userID, req.LessonID, result.Waitlisted)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
