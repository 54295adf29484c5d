package create_booking

import (
	"time"
)

// Request модель запроса на бронирование занятия
type Request struct {
	UserID   int64 // ID студента
	LessonID int64 // ID занятия
}

// Response модель ответа с созданным бронированием
// Waitlisted управляет пользовательским сообщением:
// место подтверждено либо запись в очередь ожидания
type Response struct {
	ID       int64
	LessonID int64
	UserID   int64

	Status        string
	Waitlisted    bool
	Position      *int
	BookedAt      time.Time
	ConfirmedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
