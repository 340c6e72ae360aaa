package entity

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// EventTime сериализуется в формате "yyyy-MM-dd HH:mm:ss",
// общем для обоих сервисов.
type EventTime struct {
	time.Time
}

const EventTimeLayout = "2006-01-02 15:04:05"

func NewEventTime(t time.Time) EventTime {
	return EventTime{Time: t}
}

func ParseEventTime(s string) (EventTime, error) {
	t, err := time.Parse(EventTimeLayout, s)
	if err != nil {
		return EventTime{}, err
	}
	return EventTime{Time: t}, nil
}

func (et *EventTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid time value %s", string(b))
	}
	s := string(b[1 : len(b)-1]) // Remove quotes
	t, err := time.Parse(EventTimeLayout, s)
	if err != nil {
		return err
	}
	et.Time = t
	return nil
}

func (et EventTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + et.Format(EventTimeLayout) + `"`), nil
}

func (et EventTime) Value() (driver.Value, error) {
	return et.Time, nil
}

func (et *EventTime) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		et.Time = v
	case []byte:
		t, err := time.Parse(EventTimeLayout, string(v))
		if err != nil {
			return err
		}
		et.Time = t
	default:
		return fmt.Errorf("cannot scan type %T into EventTime", value)
	}
	return nil
}
