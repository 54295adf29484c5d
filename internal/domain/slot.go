package domain

import "github.com/m04kA/SMC-LessonService/pkg/types"

// AvailabilitySlot ячейка сетки доступности инструктора
type AvailabilitySlot struct {
	Time      types.TimeString
	Available bool
}
