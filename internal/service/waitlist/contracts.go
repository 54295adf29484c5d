package waitlist

import (
	"context"

	"github.com/m04kA/SMC-LessonService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	MaxWaitlistPosition(ctx context.Context, lessonID int64) (int, error)
	HeadOfQueue(ctx context.Context, lessonID int64) (*domain.Booking, error)
	CompactPositionsAfter(ctx context.Context, lessonID int64, removedPosition int) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
