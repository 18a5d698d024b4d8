package mailservice

// SendRequest запрос на отправку письма пользователю
type SendRequest struct {
	UserID   int64  `json:"user_id"`
	Template string `json:"template"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Шаблоны писем жизненного цикла брони
const (
	TemplatePostponed           = "reservation_postponed"
	TemplateAvailabilityRestore = "facility_availability_restored"
)

// ErrorResponse модель ошибки от MailService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
