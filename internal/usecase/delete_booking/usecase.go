package delete_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-LessonService/pkg/ptr"
)

// UseCase use case удаления бронирования (только для админа)
// Удаление, как и отмена, освобождает место или сдвигает очередь ожидания
type UseCase struct {
	bookingRepo BookingRepository
	lessonRepo  LessonRepository
	waitlist    WaitlistSequencer
	notifier    Notifier
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	lessonRepo LessonRepository,
	waitlist WaitlistSequencer,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		lessonRepo:  lessonRepo,
		waitlist:    waitlist,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case удаления бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DeleteBooking: booking=%d", req.BookingID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	var promoted *domain.Booking

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		promoted = nil

		// 2.1. Получаем бронирование
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("DeleteBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("DeleteBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		// 2.2. Блокируем строку занятия (FOR UPDATE внутри транзакции)
		if _, err := uc.lessonRepo.GetByID(txCtx, booking.LessonID); err != nil {
			uc.logger.Error("DeleteBooking: failed to get lesson id=%d: %v", booking.LessonID, err)
			return fmt.Errorf("%w: failed to get lesson: %w", ErrInternal, err)
		}

		// 2.3. Удаляем бронирование
		if err := uc.bookingRepo.Delete(txCtx, booking.ID); err != nil {
			uc.logger.Error("DeleteBooking: failed to delete booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to delete booking: %w", ErrInternal, err)
		}

		switch {
		case booking.IsSeat():
			// 2.4. Освободилось место - продвигаем первого из очереди ожидания
			head, err := uc.waitlist.HeadOfQueue(txCtx, booking.LessonID)
			if err != nil {
				uc.logger.Error("DeleteBooking: failed to get head of queue for lesson=%d: %v",
					booking.LessonID, err)
				return fmt.Errorf("%w: failed to get head of queue: %w", ErrInternal, err)
			}
			if head != nil {
				if err := uc.bookingRepo.Promote(txCtx, head.ID); err != nil {
					uc.logger.Error("DeleteBooking: failed to promote booking id=%d: %v", head.ID, err)
					return fmt.Errorf("%w: failed to promote booking: %w", ErrInternal, err)
				}
				if head.Position != nil {
					if err := uc.waitlist.CompactAfter(txCtx, booking.LessonID, *head.Position); err != nil {
						uc.logger.Error("DeleteBooking: failed to compact positions for lesson=%d: %v",
							booking.LessonID, err)
						return fmt.Errorf("%w: failed to compact waitlist: %w", ErrInternal, err)
					}
				}
				promoted = head
			}
		case booking.IsWaiting() && booking.Position != nil:
			// 2.5. Удалён из очереди ожидания - сдвигаем позиции за ним
			if err := uc.waitlist.CompactAfter(txCtx, booking.LessonID, *booking.Position); err != nil {
				uc.logger.Error("DeleteBooking: failed to compact positions for lesson=%d: %v",
					booking.LessonID, err)
				return fmt.Errorf("%w: failed to compact waitlist: %w", ErrInternal, err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("DeleteBooking: booking id=%d deleted", req.BookingID)

	resp := &Response{}

	// 3. Уведомляем продвинутого пользователя (best-effort, после коммита)
	if promoted != nil {
		uc.logger.Info("DeleteBooking: booking id=%d promoted from waitlist", promoted.ID)
		_ = uc.notifier.DispatchBestEffort(ctx, notifyservice.DispatchRequest{
			RecipientUserID: promoted.UserID,
			LessonID:        promoted.LessonID,
			Kind:            notifyservice.KindWaitlistPromoted,
		})
		resp.PromotedBookingID = ptr.Ptr(promoted.ID)
	}

	return resp, nil
}
