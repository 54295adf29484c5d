// Package capacity учёт занятых мест занятия (capacity ledger)
// Не имеет собственного состояния: всё выводится из строк бронирований
// и MaxCapacity занятия
package capacity

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-LessonService/internal/domain"
)

// Service вычисляет занятость мест занятия
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр capacity ledger
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// SeatCount возвращает число занятых мест занятия:
// активные бронирования (pending/confirmed) вне очереди ожидания
// Должен вызываться внутри транзакции последующей записи,
// иначе возможно чтение устаревшего счётчика
func (s *Service) SeatCount(ctx context.Context, lessonID int64) (int, error) {
	count, err := s.bookingRepo.CountSeats(ctx, lessonID)
	if err != nil {
		return 0, fmt.Errorf("capacity: seat count for lesson=%d: %w", lessonID, err)
	}
	return count, nil
}

// HasCapacity возвращает true, если у занятия есть свободное место
func (s *Service) HasCapacity(ctx context.Context, lesson *domain.Lesson) (bool, error) {
	count, err := s.SeatCount(ctx, lesson.ID)
	if err != nil {
		return false, err
	}

	s.logger.Info("HasCapacity: lesson=%d seats %d/%d", lesson.ID, count, lesson.MaxCapacity)
	return count < lesson.MaxCapacity, nil
}
