package lesson

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	"github.com/m04kA/SMC-LessonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LessonService/pkg/psqlbuilder"
)

var lessonColumns = []string{
	"id",
	"instructor_id",
	"title",
	"start_time",
	"end_time",
	"max_capacity",
	"cancellation_deadline_hours",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий read model занятий
// Занятия создаёт внешняя админка; здесь только чтение
// и блокировка строки занятия внутри транзакций бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория занятий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает занятие по ID
// Внутри активной транзакции добавляет FOR UPDATE: строка занятия -
// точка сериализации для подсчёта мест и выдачи позиций очереди
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Lesson, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var lesson domain.Lesson
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&lesson.ID,
		&lesson.InstructorID,
		&lesson.Title,
		&lesson.StartTime,
		&lesson.EndTime,
		&lesson.MaxCapacity,
		&lesson.CancellationDeadlineHours,
		&lesson.Status,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lesson: %w", ErrScanRow, err)
	}

	lesson.CreatedAt = createdAt.Time
	lesson.UpdatedAt = updatedAt.Time

	return &lesson, nil
}

// GetByInstructorAndDay получает неархивированные занятия инструктора,
// начинающиеся в указанный день, для сетки доступности
// excludeLessonID исключает редактируемое занятие из проверки конфликтов
func (r *Repository) GetByInstructorAndDay(ctx context.Context, instructorID int64, day time.Time, excludeLessonID *int64) ([]domain.Lesson, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	selectBuilder := psqlbuilder.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"instructor_id": instructorID}).
		Where(squirrel.NotEq{"status": domain.LessonStatusArchived}).
		Where(squirrel.GtOrEq{"start_time": dayStart}).
		Where(squirrel.Lt{"start_time": dayEnd}).
		OrderBy("start_time ASC")

	if excludeLessonID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeLessonID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByInstructorAndDay - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByInstructorAndDay - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	lessons := make([]domain.Lesson, 0)
	for rows.Next() {
		var lesson domain.Lesson
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&lesson.ID,
			&lesson.InstructorID,
			&lesson.Title,
			&lesson.StartTime,
			&lesson.EndTime,
			&lesson.MaxCapacity,
			&lesson.CancellationDeadlineHours,
			&lesson.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByInstructorAndDay - scan lesson: %w", ErrScanRow, err)
		}

		lesson.CreatedAt = createdAt.Time
		lesson.UpdatedAt = updatedAt.Time
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByInstructorAndDay - rows error: %w", ErrScanRow, err)
	}

	return lessons, nil
}
