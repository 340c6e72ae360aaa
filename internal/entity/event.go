package entity

type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// Действия над состоянием события со стороны владельца.
type StateActionPrivate string

const (
	StateActionSendToReview StateActionPrivate = "SEND_TO_REVIEW"
	StateActionCancelReview StateActionPrivate = "CANCEL_REVIEW"
)

// Действия над состоянием события со стороны администратора.
type StateActionAdmin string

const (
	StateActionPublishEvent StateActionAdmin = "PUBLISH_EVENT"
	StateActionRejectEvent  StateActionAdmin = "REJECT_EVENT"
)

type EventSort string

const (
	EventSortDate  EventSort = "EVENT_DATE"
	EventSortViews EventSort = "VIEWS"
)

type Location struct {
	ID  int64   `json:"-" db:"id"`
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

type Event struct {
	ID                int64      `json:"id" db:"id"`
	Annotation        string     `json:"annotation" db:"annotation"`
	Category          Category   `json:"category"`
	CreatedOn         EventTime  `json:"createdOn" db:"created_on"`
	Description       string     `json:"description" db:"description"`
	EventDate         EventTime  `json:"eventDate" db:"event_date"`
	Initiator         User       `json:"initiator"`
	Location          Location   `json:"location"`
	Paid              bool       `json:"paid" db:"paid"`
	ParticipantLimit  int        `json:"participantLimit" db:"participant_limit"`
	PublishedOn       *EventTime `json:"publishedOn,omitempty" db:"published_on"`
	RequestModeration bool       `json:"requestModeration" db:"request_moderation"`
	State             EventState `json:"state" db:"state"`
	Title             string     `json:"title" db:"title"`
}

// EventDetails — событие с количеством подтверждённых заявок,
// отдаётся владельцу и администратору.
type EventDetails struct {
	Event
	ConfirmedRequests int64 `json:"confirmedRequests"`
}

// EventWithStats — событие, обогащённое просмотрами из сервиса
// статистики и количеством подтверждённых заявок.
type EventWithStats struct {
	Event
	ConfirmedRequests int64 `json:"confirmedRequests"`
	Views             int64 `json:"views"`
}
