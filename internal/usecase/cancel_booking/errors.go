package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь пытается отменить чужое бронирование
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrCannotCancel возвращается, когда бронирование нельзя отменить
	// (уже отменено или завершено)
	ErrCannotCancel = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrDeadlinePassed возвращается, когда дедлайн отмены прошёл
	ErrDeadlinePassed = errors.New("cancel_booking: cancellation deadline has passed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
