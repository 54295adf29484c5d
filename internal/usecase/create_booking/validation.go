package create_booking

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
// Выполняется до открытия транзакции
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.LessonID <= 0 {
		return fmt.Errorf("%w: lessonID must be positive", ErrInvalidInput)
	}

	return nil
}
