package domain

// Availability grid constants
const (
	// SlotGranularityMinutes шаг сетки доступности инструктора
	SlotGranularityMinutes = 30

	// AvailabilityDayStartHour первый бронируемый час дня (06:00)
	AvailabilityDayStartHour = 6

	// AvailabilityDayEndHour конец сетки, последний слот начинается в 21:30
	AvailabilityDayEndHour = 22
)

// Business validation constants
const (
	MaxCancellationReasonLength = 500
	MaxCancellationNoteLength   = 1000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, при которых бронирование считается активным
// Используется при подсчёте занятых мест и проверке дубликатов
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
