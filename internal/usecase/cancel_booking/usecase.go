package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-LessonService/pkg/ptr"
)

// UseCase use case отмены бронирования
// Отмена подтверждённого места продвигает первого из очереди ожидания;
// отмена из очереди ожидания сдвигает позиции без дыр
type UseCase struct {
	bookingRepo  BookingRepository
	lessonRepo   LessonRepository
	waitlist     WaitlistSequencer
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
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
		bookingRepo:  bookingRepo,
		lessonRepo:   lessonRepo,
		waitlist:     waitlist,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отмены бронирования
// Дедлайн отмены проверяется только для владельца бронирования,
// админ может отменять без ограничений
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%d, admin=%t", req.BookingID, req.ActorID, req.IsAdmin)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var cancelled *domain.Booking
	var promoted *domain.Booking

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		cancelled = nil
		promoted = nil

		// 3.1. Получаем бронирование
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		// 3.2. Проверяем права: владелец или админ
		if !req.IsAdmin && booking.UserID != req.ActorID {
			uc.logger.Warn("CancelBooking: user=%d attempted to cancel booking id=%d of user=%d",
				req.ActorID, booking.ID, booking.UserID)
			return ErrAccessDenied
		}

		// 3.3. Бронирование должно быть активным
		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d cannot be cancelled, status=%s", booking.ID, booking.Status)
			return ErrCannotCancel
		}

		// 3.4. Блокируем строку занятия (FOR UPDATE внутри транзакции)
		lesson, err := uc.lessonRepo.GetByID(txCtx, booking.LessonID)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to get lesson id=%d: %v", booking.LessonID, err)
			return fmt.Errorf("%w: failed to get lesson: %w", ErrInternal, err)
		}

		// 3.5. Дедлайн отмены - только для владельца
		if !req.IsAdmin && !now.Before(lesson.CancellationDeadline()) {
			uc.logger.Warn("CancelBooking: deadline passed for booking id=%d, deadline=%s",
				booking.ID, lesson.CancellationDeadline())
			return fmt.Errorf("%w: cancellation allowed until %d hours before start",
				ErrDeadlinePassed, lesson.CancellationDeadlineHours)
		}

		// 3.6. Отменяем бронирование
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, req.Reason, req.Note); err != nil {
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
		}

		switch {
		case booking.IsSeat():
			// 3.7. Освободилось место - продвигаем первого из очереди ожидания
			head, err := uc.waitlist.HeadOfQueue(txCtx, booking.LessonID)
			if err != nil {
				uc.logger.Error("CancelBooking: failed to get head of queue for lesson=%d: %v",
					booking.LessonID, err)
				return fmt.Errorf("%w: failed to get head of queue: %w", ErrInternal, err)
			}
			if head != nil {
				if err := uc.bookingRepo.Promote(txCtx, head.ID); err != nil {
					uc.logger.Error("CancelBooking: failed to promote booking id=%d: %v", head.ID, err)
					return fmt.Errorf("%w: failed to promote booking: %w", ErrInternal, err)
				}
				if head.Position != nil {
					if err := uc.waitlist.CompactAfter(txCtx, booking.LessonID, *head.Position); err != nil {
						uc.logger.Error("CancelBooking: failed to compact positions for lesson=%d: %v",
							booking.LessonID, err)
						return fmt.Errorf("%w: failed to compact waitlist: %w", ErrInternal, err)
					}
				}
				promoted = head
			}
		case booking.IsWaiting() && booking.Position != nil:
			// 3.8. Ушёл из очереди ожидания - сдвигаем позиции за ним
			if err := uc.waitlist.CompactAfter(txCtx, booking.LessonID, *booking.Position); err != nil {
				uc.logger.Error("CancelBooking: failed to compact positions for lesson=%d: %v",
					booking.LessonID, err)
				return fmt.Errorf("%w: failed to compact waitlist: %w", ErrInternal, err)
			}
		}

		cancelled = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled", cancelled.ID)

	resp := &Response{
		ID:          cancelled.ID,
		LessonID:    cancelled.LessonID,
		UserID:      cancelled.UserID,
		Status:      string(domain.StatusCancelled),
		CancelledAt: &now,
	}

	// 4. Уведомляем продвинутого пользователя (best-effort, после коммита)
	if promoted != nil {
		uc.logger.Info("CancelBooking: booking id=%d promoted from waitlist", promoted.ID)
		_ = uc.notifier.DispatchBestEffort(ctx, notifyservice.DispatchRequest{
			RecipientUserID: promoted.UserID,
			LessonID:        promoted.LessonID,
			Kind:            notifyservice.KindWaitlistPromoted,
		})
		resp.PromotedBookingID = ptr.Ptr(promoted.ID)
	}

	return resp, nil
}
