package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	"github.com/m04kA/SMC-LessonService/pkg/types"
)

// UseCase use case получения доступных слотов инструктора на день
// Сетка слотов: 06:00-22:00 с шагом 30 минут, слот занят, если
// попадает в полуинтервал [start, end) любого занятия инструктора
type UseCase struct {
	lessonRepo LessonRepository
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(lessonRepo LessonRepository, logger Logger) *UseCase {
	return &UseCase{
		lessonRepo: lessonRepo,
		logger:     logger,
	}
}

// Execute выполняет use case получения доступных слотов
// При ошибке чтения занятий возвращает полностью свободную сетку:
// проверка доступности не должна блокировать запись на занятия
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: instructor=%d, date=%s", req.InstructorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.InstructorID <= 0 {
		return nil, fmt.Errorf("%w: instructor id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Получаем занятия инструктора на день
	lessons, err := uc.lessonRepo.GetByInstructorAndDay(ctx, req.InstructorID, req.Date, req.ExcludeLessonID)
	if err != nil {
		// Fail-open: ошибка чтения не должна ронять проверку доступности
		uc.logger.Error("GetAvailableSlots: failed to get lessons for instructor=%d: %v", req.InstructorID, err)
		lessons = nil
	}

	// 3. Строим сетку слотов и помечаем занятые
	slots := uc.buildSlots(req.Date, lessons)

	return &Response{
		InstructorID: req.InstructorID,
		Date:         req.Date.Format(domain.DateFormat),
		Slots:        slots,
	}, nil
}

// buildSlots строит сетку слотов дня и помечает занятые занятиями
func (uc *UseCase) buildSlots(date time.Time, lessons []domain.Lesson) []domain.AvailabilitySlot {
	totalMinutes := (domain.AvailabilityDayEndHour - domain.AvailabilityDayStartHour) * 60
	slotsCount := totalMinutes / domain.SlotGranularityMinutes

	slots := make([]domain.AvailabilitySlot, 0, slotsCount)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(),
		domain.AvailabilityDayStartHour, 0, 0, 0, date.Location())

	for i := 0; i < slotsCount; i++ {
		slotTime := dayStart.Add(time.Duration(i*domain.SlotGranularityMinutes) * time.Minute)

		available := true
		for _, lesson := range lessons {
			if lesson.Blocks(slotTime) {
				available = false
				break
			}
		}

		slots = append(slots, domain.AvailabilitySlot{
			Time:      types.NewTimeString(slotTime),
			Available: available,
		})
	}

	return slots
}
