package delete_booking

import (
	"context"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	"github.com/m04kA/SMC-LessonService/internal/integrations/notifyservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	Promote(ctx context.Context, id int64) error
}

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	// GetByID внутри транзакции блокирует строку занятия (FOR UPDATE)
	GetByID(ctx context.Context, id int64) (*domain.Lesson, error)
}

// WaitlistSequencer интерфейс секвенсера очереди ожидания
type WaitlistSequencer interface {
	HeadOfQueue(ctx context.Context, lessonID int64) (*domain.Booking, error)
	CompactAfter(ctx context.Context, lessonID int64, removedPosition int) error
}

// Notifier интерфейс отправки уведомлений
type Notifier interface {
	DispatchBestEffort(ctx context.Context, req notifyservice.DispatchRequest) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
