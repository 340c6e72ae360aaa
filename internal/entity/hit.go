package entity

// EndpointHit — запись о просмотре страницы. Неизменяема после записи.
type EndpointHit struct {
	ID        int64     `json:"id" db:"id"`
	App       string    `json:"app" db:"app"`
	URI       string    `json:"uri" db:"uri"`
	IP        string    `json:"ip" db:"ip"`
	Timestamp EventTime `json:"timestamp" db:"timestamp"`
}

// ViewStats — агрегированное количество просмотров по URI.
// Не хранится, вычисляется по запросу.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}
