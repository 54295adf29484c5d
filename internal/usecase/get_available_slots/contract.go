package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LessonService/internal/domain"
)

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	GetByInstructorAndDay(ctx context.Context, instructorID int64, day time.Time, excludeLessonID *int64) ([]domain.Lesson, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
