package create_booking

import "errors"

var (
	// ErrLessonNotFound возвращается, когда занятие не найдено
	ErrLessonNotFound = errors.New("create_booking: lesson not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("create_booking: user not found")

	// ErrLessonNotBookable возвращается, когда занятие не опубликовано
	ErrLessonNotBookable = errors.New("create_booking: lesson is not bookable")

	// ErrLessonAlreadyStarted возвращается, когда занятие уже началось
	ErrLessonAlreadyStarted = errors.New("create_booking: lesson has already started")

	// ErrDuplicateBooking возвращается, когда у пользователя уже есть
	// неотменённое бронирование этого занятия
	ErrDuplicateBooking = errors.New("create_booking: duplicate booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
