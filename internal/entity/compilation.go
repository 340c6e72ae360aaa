package entity

// Compilation — подборка событий, курируемая администратором.
type Compilation struct {
	ID     int64          `json:"id" db:"id"`
	Title  string         `json:"title" db:"title"`
	Pinned bool           `json:"pinned" db:"pinned"`
	Events []EventDetails `json:"events"`
}
