package domain

import "time"

// LessonStatus represents the publication status of a lesson
type LessonStatus string

const (
	LessonStatusDraft     LessonStatus = "draft"
	LessonStatusPublished LessonStatus = "published"
	LessonStatusArchived  LessonStatus = "archived"
)

// Lesson read model бронируемого занятия
// Занятия создаются и редактируются внешней админкой; этот сервис
// только читает их и блокирует строку занятия на время бронирования
type Lesson struct {
	ID           int64
	InstructorID int64
	Title        string

	StartTime time.Time
	EndTime   time.Time

	MaxCapacity               int
	CancellationDeadlineHours int

	Status LessonStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPublished returns true if the lesson is published
func (l *Lesson) IsPublished() bool {
	return l.Status == LessonStatusPublished
}

// HasStarted returns true if the lesson has already started at the given moment
func (l *Lesson) HasStarted(now time.Time) bool {
	return !now.Before(l.StartTime)
}

// IsBookable returns true if the lesson accepts new bookings at the given moment
func (l *Lesson) IsBookable(now time.Time) bool {
	return l.IsPublished() && !l.HasStarted(now)
}

// CancellationDeadline момент, после которого студент не может отменить бронирование
func (l *Lesson) CancellationDeadline() time.Time {
	return l.StartTime.Add(-time.Duration(l.CancellationDeadlineHours) * time.Hour)
}

// Blocks returns true if the lesson makes the given slot moment unavailable
// Интервал полуоткрытый: [StartTime, EndTime)
func (l *Lesson) Blocks(slot time.Time) bool {
	return !slot.Before(l.StartTime) && slot.Before(l.EndTime)
}
