package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований и административных операций
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование, админ - любое
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64, isAdmin bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actorID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if !isAdmin && booking.UserID != actorID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetLessonBookings получает список бронирований занятия
// Места идут первыми, затем очередь ожидания по позициям
// Доступно только админу
func (s *Service) GetLessonBookings(ctx context.Context, req *models.GetLessonBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetLessonBookings: fetching bookings for lesson=%d, includeInactive=%t",
		req.LessonID, req.IncludeInactive)

	bookings, err := s.bookingRepo.GetByLessonID(ctx, req.LessonID, req.IncludeInactive)
	if err != nil {
		s.logger.Error("GetLessonBookings: repository error for lesson=%d: %v", req.LessonID, err)
		return nil, fmt.Errorf("%w: GetLessonBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetLessonBookings: successfully fetched %d bookings for lesson=%d", len(bookings), req.LessonID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus обновляет статус бронирования напрямую
// Административная операция: смена статуса не трогает очередь ожидания,
// продвижение выполняется только при отмене и удалении
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", bookingID, req.Status)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	// Обновляем статус
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus, req.Reason, req.Note); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// MarkAttendance отмечает посещаемость по списку бронирований
// Несуществующие ID молча пропускаются
func (s *Service) MarkAttendance(ctx context.Context, req *models.MarkAttendanceRequest) error {
	s.logger.Info("MarkAttendance: marking %d bookings, attended=%t", len(req.BookingIDs), req.Attended)

	if len(req.BookingIDs) == 0 {
		return fmt.Errorf("%w: booking ids are required", ErrInvalidInput)
	}

	if err := s.bookingRepo.SetAttendance(ctx, req.BookingIDs, req.Attended); err != nil {
		s.logger.Error("MarkAttendance: repository error: %v", err)
		return fmt.Errorf("%w: MarkAttendance - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkAttendance: successfully marked %d bookings", len(req.BookingIDs))
	return nil
}
