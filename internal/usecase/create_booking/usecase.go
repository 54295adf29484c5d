package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/booking"
	lessonRepo "github.com/m04kA/SMC-LessonService/internal/infra/storage/lesson"
	"github.com/m04kA/SMC-LessonService/internal/integrations/notifyservice"
	userClient "github.com/m04kA/SMC-LessonService/internal/integrations/userservice"
	"github.com/m04kA/SMC-LessonService/pkg/ptr"
)

// UseCase use case бронирования занятия
// Свободное место - бронирование подтверждается сразу;
// занятие заполнено - бронирование попадает в очередь ожидания
type UseCase struct {
	bookingRepo  BookingRepository
	lessonRepo   LessonRepository
	capacity     CapacityLedger
	waitlist     WaitlistSequencer
	userClient   UserServiceClient
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	lessonRepo LessonRepository,
	capacity CapacityLedger,
	waitlist WaitlistSequencer,
	userClient UserServiceClient,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		lessonRepo:   lessonRepo,
		capacity:     capacity,
		waitlist:     waitlist,
		userClient:   userClient,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case бронирования занятия
// Чтение занятости и зависящая от него вставка выполняются в одной
// сериализуемой транзакции с заблокированной строкой занятия:
// два одновременных запроса на последнее место сериализуются,
// и второй уходит в очередь ожидания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, lesson=%d", req.UserID, req.LessonID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование пользователя
	if _, err := uc.userClient.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: user id=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("CreateBooking: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, err)
	}

	// 3. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Booking

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Блокируем строку занятия (FOR UPDATE внутри транзакции)
		lesson, err := uc.lessonRepo.GetByID(txCtx, req.LessonID)
		if err != nil {
			if errors.Is(err, lessonRepo.ErrLessonNotFound) {
				uc.logger.Warn("CreateBooking: lesson id=%d not found", req.LessonID)
				return ErrLessonNotFound
			}
			uc.logger.Error("CreateBooking: failed to get lesson id=%d: %v", req.LessonID, err)
			return fmt.Errorf("%w: failed to get lesson: %w", ErrInternal, err)
		}

		// 4.2. Занятие должно быть опубликовано
		if !lesson.IsPublished() {
			uc.logger.Warn("CreateBooking: lesson id=%d is not published, status=%s", lesson.ID, lesson.Status)
			return ErrLessonNotBookable
		}

		// 4.3. Занятие не должно было начаться
		if lesson.HasStarted(now) {
			uc.logger.Warn("CreateBooking: lesson id=%d already started at %s", lesson.ID, lesson.StartTime)
			return ErrLessonAlreadyStarted
		}

		// 4.4. Не более одного неотменённого бронирования на (user, lesson)
		existing, err := uc.bookingRepo.GetByUserAndLesson(txCtx, req.UserID, req.LessonID)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("CreateBooking: failed to check duplicate for user=%d lesson=%d: %v",
				req.UserID, req.LessonID, err)
			return fmt.Errorf("%w: failed to check duplicate booking: %w", ErrInternal, err)
		}
		if existing != nil {
			uc.logger.Warn("CreateBooking: duplicate booking id=%d for user=%d lesson=%d",
				existing.ID, req.UserID, req.LessonID)
			return ErrDuplicateBooking
		}

		// 4.5. Решаем: место или очередь ожидания
		hasCapacity, err := uc.capacity.HasCapacity(txCtx, lesson)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check capacity for lesson=%d: %v", lesson.ID, err)
			return fmt.Errorf("%w: failed to check capacity: %w", ErrInternal, err)
		}

		booking := &domain.Booking{
			LessonID: req.LessonID,
			UserID:   req.UserID,
			BookedAt: now,
		}

		if hasCapacity {
			booking.Status = domain.StatusConfirmed
			booking.ConfirmedAt = &now
		} else {
			position, err := uc.waitlist.NextPosition(txCtx, req.LessonID)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to get next position for lesson=%d: %v", lesson.ID, err)
				return fmt.Errorf("%w: failed to get next waitlist position: %w", ErrInternal, err)
			}

			booking.Status = domain.StatusPending
			booking.IsWaitingList = true
			booking.Position = ptr.Ptr(position)
		}

		// 4.6. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking for user=%d lesson=%d: %v",
				req.UserID, req.LessonID, err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	if result.IsWaitingList {
		uc.logger.Info("CreateBooking: booking id=%d waitlisted at position=%d", result.ID, *result.Position)
	} else {
		uc.logger.Info("CreateBooking: booking id=%d confirmed", result.ID)
	}

	// 5. Уведомляем пользователя (best-effort, после коммита)
	kind := notifyservice.KindBookingConfirmed
	if result.IsWaitingList {
		kind = notifyservice.KindBookingWaitlisted
	}
	_ = uc.notifier.DispatchBestEffort(ctx, notifyservice.DispatchRequest{
		RecipientUserID: result.UserID,
		LessonID:        result.LessonID,
		Kind:            kind,
	})

	return &Response{
		ID:          result.ID,
		LessonID:    result.LessonID,
		UserID:      result.UserID,
		Status:      string(result.Status),
		Waitlisted:  result.IsWaitingList,
		Position:    result.Position,
		BookedAt:    result.BookedAt,
		ConfirmedAt: result.ConfirmedAt,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}
