// Package waitlist поддержание строгого порядка очереди ожидания занятия
// Инвариант: позиции ожидающих бронирований занятия образуют
// непрерывную последовательность 1..N без дубликатов и пропусков,
// упорядоченную по времени входа в очередь
package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/booking"
)

// Service секвенсер очереди ожидания
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр секвенсера очереди
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// NextPosition выдаёт следующую позицию очереди занятия: max(position)+1, либо 1
// Должен вычисляться и использоваться внутри одной транзакции со вставкой
// бронирования, иначе два одновременных входа в очередь получат одну позицию
func (s *Service) NextPosition(ctx context.Context, lessonID int64) (int, error) {
	max, err := s.bookingRepo.MaxWaitlistPosition(ctx, lessonID)
	if err != nil {
		return 0, fmt.Errorf("waitlist: next position for lesson=%d: %w", lessonID, err)
	}

	next := max + 1
	s.logger.Info("NextPosition: lesson=%d position=%d", lessonID, next)
	return next, nil
}

// HeadOfQueue возвращает голову очереди занятия, либо nil при пустой очереди
func (s *Service) HeadOfQueue(ctx context.Context, lessonID int64) (*domain.Booking, error) {
	head, err := s.bookingRepo.HeadOfQueue(ctx, lessonID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("waitlist: head of queue for lesson=%d: %w", lessonID, err)
	}
	return head, nil
}

// CompactAfter закрывает пробел после ухода бронирования с позиции removedPosition:
// все позиции больше removedPosition уменьшаются на единицу
func (s *Service) CompactAfter(ctx context.Context, lessonID int64, removedPosition int) error {
	if err := s.bookingRepo.CompactPositionsAfter(ctx, lessonID, removedPosition); err != nil {
		return fmt.Errorf("waitlist: compact after position=%d for lesson=%d: %w", removedPosition, lessonID, err)
	}

	s.logger.Info("CompactAfter: lesson=%d compacted positions above %d", lessonID, removedPosition)
	return nil
}
