package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LessonService/internal/domain"
	"github.com/m04kA/SMC-LessonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LessonService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"lesson_id",
	"user_id",
	"status",
	"is_waiting_list",
	"position",
	"booked_at",
	"confirmed_at",
	"cancelled_at",
	"cancellation_reason",
	"cancellation_note",
	"attendance_marked",
	"attended",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями занятий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её
// Все вставки из lifecycle-операций выполняются внутри сериализуемой транзакции
// с заблокированной строкой занятия, поэтому подсчёт мест и выдача позиции
// консистентны с этой вставкой
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"lesson_id",
			"user_id",
			"status",
			"is_waiting_list",
			"position",
			"booked_at",
			"confirmed_at",
		).
		Values(
			booking.LessonID,
			booking.UserID,
			booking.Status,
			booking.IsWaitingList,
			booking.Position,
			booking.BookedAt,
			booking.ConfirmedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByUserAndLesson получает неотменённое бронирование пользователя на занятие
// Инвариант уникальности: не более одного неотменённого бронирования
// на пару (пользователь, занятие)
func (r *Repository) GetByUserAndLesson(ctx context.Context, userID, lessonID int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID, "lesson_id": lessonID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserAndLesson - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByUserAndLesson")
}

// CountSeats подсчитывает занятые места занятия:
// активные бронирования (pending/confirmed) вне очереди ожидания
// Должен вызываться внутри той же транзакции, что и последующая запись
func (r *Repository) CountSeats(ctx context.Context, lessonID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"lesson_id":       lessonID,
			"is_waiting_list": false,
			"status":          domain.ActiveStatuses,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountSeats - build select query: %w", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountSeats - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// MaxWaitlistPosition возвращает максимальную позицию в очереди ожидания занятия
// 0, если очередь пуста
func (r *Repository) MaxWaitlistPosition(ctx context.Context, lessonID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(MAX(position), 0)").
		From("bookings").
		Where(squirrel.Eq{
			"lesson_id":       lessonID,
			"is_waiting_list": true,
			"status":          domain.StatusPending,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MaxWaitlistPosition - build select query: %w", ErrBuildQuery, err)
	}

	var max int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&max); err != nil {
		return 0, fmt.Errorf("%w: MaxWaitlistPosition - scan max position: %w", ErrScanRow, err)
	}

	return max, nil
}

// HeadOfQueue возвращает голову очереди ожидания занятия:
// ожидающее бронирование с минимальной позицией,
// при равенстве позиций - с самым ранним booked_at
func (r *Repository) HeadOfQueue(ctx context.Context, lessonID int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"lesson_id":       lessonID,
			"is_waiting_list": true,
			"status":          domain.StatusPending,
		}).
		OrderBy("position ASC", "booked_at ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: HeadOfQueue - build select query: %w", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "HeadOfQueue")
}

// Promote переводит голову очереди на освободившееся место:
// статус confirmed, выход из очереди, позиция очищается
func (r *Repository) Promote(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("is_waiting_list", false).
		Set("position", nil).
		Set("confirmed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Promote - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Promote")
}

// Cancel отменяет бронирование с указанием причины
// Отменённое бронирование покидает очередь ожидания:
// is_waiting_list и position очищаются (позиция заполнена только у ожидающих)
func (r *Repository) Cancel(ctx context.Context, id int64, reason, note *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("is_waiting_list", false).
		Set("position", nil).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("cancellation_reason", reason).
		Set("cancellation_note", note).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// UpdateStatus обновляет статус бронирования (административный override)
// Временные метки выставляются консистентно со статусом:
// confirmed - confirmed_at=NOW(), cancelled - cancelled_at=NOW() + причина
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, reason, note *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	switch status {
	case domain.StatusConfirmed:
		builder = builder.Set("confirmed_at", squirrel.Expr("NOW()"))
	case domain.StatusCancelled:
		builder = builder.
			Set("cancelled_at", squirrel.Expr("NOW()")).
			Set("is_waiting_list", false).
			Set("position", nil)
		if reason != nil {
			builder = builder.Set("cancellation_reason", reason)
		}
		if note != nil {
			builder = builder.Set("cancellation_note", note)
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// CompactPositionsAfter сдвигает позиции очереди на единицу вниз
// после ухода бронирования с позиции removedPosition
// Восстанавливает непрерывность последовательности 1..N
func (r *Repository) CompactPositionsAfter(ctx context.Context, lessonID int64, removedPosition int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("position", squirrel.Expr("position - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"lesson_id":       lessonID,
			"is_waiting_list": true,
			"status":          domain.StatusPending,
		}).
		Where(squirrel.Gt{"position": removedPosition}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CompactPositionsAfter - build update query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CompactPositionsAfter - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// SetAttendance помечает посещаемость для набора бронирований
// Best-effort: несуществующие ID молча пропускаются
func (r *Repository) SetAttendance(ctx context.Context, ids []int64, attended bool) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("attendance_marked", true).
		Set("attended", attended).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetAttendance - build update query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetAttendance - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет бронирование (физическое удаление, административная операция)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Delete")
}

// GetByUserID получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booked_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByLessonID получает бронирования занятия для админских таблиц
// Сначала места, затем очередь ожидания по позициям
func (r *Repository) GetByLessonID(ctx context.Context, lessonID int64, includeInactive bool) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"lesson_id": lessonID}).
		OrderBy("is_waiting_list ASC", "position ASC NULLS FIRST", "booked_at ASC")

	if !includeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.ActiveStatuses})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLessonID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLessonID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// execExpectingRow выполняет запрос, ожидающий ровно одну затронутую строку
func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку результата в бронирование
func (r *Repository) scanBooking(row rowScanner, op string) (*domain.Booking, error) {
	var booking domain.Booking
	var bookedAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.LessonID,
		&booking.UserID,
		&booking.Status,
		&booking.IsWaitingList,
		&booking.Position,
		&bookedAt,
		&booking.ConfirmedAt,
		&booking.CancelledAt,
		&booking.CancellationReason,
		&booking.CancellationNote,
		&booking.AttendanceMarked,
		&booking.Attended,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
	}

	booking.BookedAt = bookedAt.Time
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows, "scanBookings")
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
