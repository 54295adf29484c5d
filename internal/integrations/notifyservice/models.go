package notifyservice

// TemplateKind вид уведомления
// Сам механизм доставки (email, push) принадлежит NotifyService;
// этот сервис решает только кого и о чём уведомить
type TemplateKind string

const (
	KindBookingConfirmed  TemplateKind = "booking_confirmed"
	KindBookingWaitlisted TemplateKind = "booking_waitlisted"
	KindWaitlistPromoted  TemplateKind = "waitlist_promoted"
)

// DispatchRequest запрос на отправку уведомления
type DispatchRequest struct {
	RecipientUserID int64        `json:"recipientUserId"`
	LessonID        int64        `json:"lessonId"`
	Kind            TemplateKind `json:"kind"`
}
