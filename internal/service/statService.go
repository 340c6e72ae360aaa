package service

import (
	"context"
	"fmt"
	"time"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/sirupsen/logrus"
)

type statService struct {
	client      StatsClient
	requestRepo repository.RequestRepository
	appName     string
}

// NewStatService создает новый экземпляр StatService. appName
// подставляется в каждую запись о просмотре.
func NewStatService(client StatsClient, requestRepo repository.RequestRepository, appName string) StatService {
	return &statService{
		client:      client,
		requestRepo: requestRepo,
		appName:     appName,
	}
}

// RecordHit отправляет запись о просмотре в сервис статистики
func (s *statService) RecordHit(ctx context.Context, uri, ip string) error {
	hit := &entity.EndpointHit{
		App:       s.appName,
		URI:       uri,
		IP:        ip,
		Timestamp: entity.NewEventTime(time.Now()),
	}

	if err := s.client.SaveHit(ctx, hit); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrHitNotSaved, err)
	}
	return nil
}

// EnrichEvent дополняет одно событие просмотрами и числом
// подтвержденных заявок.
func (s *statService) EnrichEvent(ctx context.Context, event *entity.Event) (*entity.EventWithStats, error) {
	enriched, err := s.EnrichEvents(ctx, []*entity.Event{event})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

// EnrichEvents дополняет набор событий одним пакетным обращением к
// сервису статистики. Окно выборки — от самой ранней даты создания
// до текущего момента, просмотры считаются по уникальным IP.
func (s *statService) EnrichEvents(ctx context.Context, events []*entity.Event) ([]*entity.EventWithStats, error) {
	if len(events) == 0 {
		return []*entity.EventWithStats{}, nil
	}

	start, err := minCreatedOn(events)
	if err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(events))
	for _, event := range events {
		uris = append(uris, eventURI(event.ID))
	}

	stats, err := s.client.GetStats(ctx, start, time.Now(), uris, true)
	if err != nil {
		return nil, err
	}

	hitsByURI := make(map[string]int64, len(stats))
	for _, stat := range stats {
		hitsByURI[stat.URI] = stat.Hits
	}

	confirmed, err := confirmedCounts(ctx, s.requestRepo, events)
	if err != nil {
		return nil, err
	}

	enriched := make([]*entity.EventWithStats, 0, len(events))
	for _, event := range events {
		enriched = append(enriched, &entity.EventWithStats{
			Event:             *event,
			ConfirmedRequests: confirmed[event.ID],
			Views:             hitsByURI[eventURI(event.ID)],
		})
	}

	logrus.WithFields(logrus.Fields{
		"events": len(events),
		"uris":   len(uris),
	}).Debug("события дополнены статистикой")

	return enriched, nil
}

// minCreatedOn находит начало окна статистики.
func minCreatedOn(events []*entity.Event) (time.Time, error) {
	if len(events) == 0 {
		return time.Time{}, entity.ErrEmptyEventsForStats
	}
	min := events[0].CreatedOn.Time
	for _, event := range events[1:] {
		if event.CreatedOn.Time.Before(min) {
			min = event.CreatedOn.Time
		}
	}
	return min, nil
}

func eventURI(eventID int64) string {
	return fmt.Sprintf("/events/%d", eventID)
}
