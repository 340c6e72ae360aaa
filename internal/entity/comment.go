package entity

// Comment — комментарий к опубликованному событию.
type Comment struct {
	ID      int64      `json:"id" db:"id"`
	Text    string     `json:"text" db:"text"`
	Author  User       `json:"author"`
	EventID int64      `json:"event" db:"event_id"`
	Created EventTime  `json:"created" db:"created"`
	Edited  *EventTime `json:"edited,omitempty" db:"edited"`
}
