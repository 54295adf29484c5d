package delete_booking

// Request модель запроса на удаление бронирования
type Request struct {
	BookingID int64
}

// Response модель ответа на удаление бронирования
type Response struct {
	// PromotedBookingID заполняется, если удаление освободило место
	// и первый в очереди ожидания был подтверждён
	PromotedBookingID *int64 `json:"promoted_booking_id,omitempty"`
}
