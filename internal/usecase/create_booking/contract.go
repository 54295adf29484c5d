package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	"github.com/m04kA/SMC-LessonService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-LessonService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByUserAndLesson(ctx context.Context, userID, lessonID int64) (*domain.Booking, error)
}

// LessonRepository интерфейс репозитория занятий
type LessonRepository interface {
	// GetByID внутри транзакции блокирует строку занятия (FOR UPDATE)
	GetByID(ctx context.Context, id int64) (*domain.Lesson, error)
}

// CapacityLedger интерфейс учёта занятых мест
type CapacityLedger interface {
	HasCapacity(ctx context.Context, lesson *domain.Lesson) (bool, error)
}

// WaitlistSequencer интерфейс секвенсера очереди ожидания
type WaitlistSequencer interface {
	NextPosition(ctx context.Context, lessonID int64) (int, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// Notifier интерфейс отправки уведомлений
type Notifier interface {
	DispatchBestEffort(ctx context.Context, req notifyservice.DispatchRequest) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
