package entity

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// ParticipationRequest — заявка пользователя на участие в событии.
// Отмена не удаляет строку, а переводит статус в CANCELED.
type ParticipationRequest struct {
	ID          int64         `json:"id" db:"id"`
	Created     EventTime     `json:"created" db:"created"`
	EventID     int64         `json:"event" db:"event_id"`
	RequesterID int64         `json:"requester" db:"requester_id"`
	Status      RequestStatus `json:"status" db:"status"`
}

// RequestStatusUpdateResult — разбиение обработанных заявок: каждая
// попадает ровно в один из двух списков.
type RequestStatusUpdateResult struct {
	ConfirmedRequests []ParticipationRequest `json:"confirmedRequests"`
	RejectedRequests  []ParticipationRequest `json:"rejectedRequests"`
}
