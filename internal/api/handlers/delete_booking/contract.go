package delete_booking

import (
	"context"

	deleteBooking "github.com/m04kA/SMC-LessonService/internal/usecase/delete_booking"
)

type DeleteBookingUseCase interface {
	Execute(ctx context.Context, req *deleteBooking.Request) (*deleteBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
