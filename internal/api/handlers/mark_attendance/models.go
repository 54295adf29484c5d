package mark_attendance

import "github.com/m04kA/SMC-LessonService/internal/service/bookings/models"

// MarkAttendanceRequest HTTP request model
type MarkAttendanceRequest struct {
	BookingIDs []int64 `json:"bookingIds"`
	Attended   bool    `json:"attended"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *MarkAttendanceRequest) ToServiceRequest() *models.MarkAttendanceRequest {
	return &models.MarkAttendanceRequest{
		BookingIDs: r.BookingIDs,
		Attended:   r.Attended,
	}
}
