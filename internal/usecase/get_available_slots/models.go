package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-LessonService/internal/domain"
)

// Request модель запроса доступных слотов инструктора
type Request struct {
	InstructorID int64
	Date         time.Time
	// ExcludeLessonID исключает занятие из проверки конфликтов
	// (например, при переносе этого занятия)
	ExcludeLessonID *int64
}

// Response модель ответа со слотами на день
type Response struct {
	InstructorID int64                     `json:"instructor_id"`
	Date         string                    `json:"date"`
	Slots        []domain.AvailabilitySlot `json:"slots"`
}
