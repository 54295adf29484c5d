package capacity

import (
	"context"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountSeats(ctx context.Context, lessonID int64) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
