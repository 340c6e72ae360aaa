package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afisha-dev/afisha/internal/entity"
)

// TestRecordHit тестирует отправку записи о просмотре
func TestRecordHit(t *testing.T) {
	t.Run("просмотр уходит с именем приложения", func(t *testing.T) {
		env := newTestEnv()
		statsClient := &fakeStatsClient{}
		svc := NewStatService(statsClient, env.requests, "afisha-main-service")

		err := svc.RecordHit(context.Background(), "/events/7", "192.168.0.1")

		require.NoError(t, err)
		require.Len(t, statsClient.savedHits, 1)
		hit := statsClient.savedHits[0]
		assert.Equal(t, "afisha-main-service", hit.App)
		assert.Equal(t, "/events/7", hit.URI)
		assert.Equal(t, "192.168.0.1", hit.IP)
		assert.WithinDuration(t, time.Now(), hit.Timestamp.Time, time.Minute)
	})

	t.Run("ошибка клиента оборачивается", func(t *testing.T) {
		env := newTestEnv()
		statsClient := &fakeStatsClient{saveErr: errors.New("connection refused")}
		svc := NewStatService(statsClient, env.requests, "afisha-main-service")

		err := svc.RecordHit(context.Background(), "/events/7", "192.168.0.1")

		require.ErrorIs(t, err, entity.ErrHitNotSaved)
	})
}

// TestEnrichEvents тестирует пакетное обогащение событий статистикой
func TestEnrichEvents(t *testing.T) {
	t.Run("одно обращение к статистике на весь набор", func(t *testing.T) {
		env := newTestEnv()
		initiator := env.seedUser(t, "Организатор", "owner@example.com")
		first := env.seedEvent(t, initiator, entity.EventStatePublished, 10, true)
		second := env.seedEvent(t, initiator, entity.EventStatePublished, 10, true)

		// Второе событие создано раньше, окно должно начаться с него
		earlier := entity.NewEventTime(time.Now().Add(-72 * time.Hour))
		env.events.events[second.ID].CreatedOn = earlier
		second.CreatedOn = earlier

		// Подтвержденная заявка на первое событие
		guest := env.seedUser(t, "Участник", "guest@example.com")
		env.seedRequest(t, first.ID, guest.ID, entity.RequestStatusConfirmed)

		statsClient := &fakeStatsClient{stats: []*entity.ViewStats{
			{App: "afisha-main-service", URI: eventURI(first.ID), Hits: 5},
		}}
		svc := NewStatService(statsClient, env.requests, "afisha-main-service")

		enriched, err := svc.EnrichEvents(context.Background(), []*entity.Event{first, second})

		require.NoError(t, err)
		require.Len(t, enriched, 2)

		// Порядок событий сохраняется
		assert.Equal(t, first.ID, enriched[0].ID)
		assert.Equal(t, second.ID, enriched[1].ID)

		// Просмотры пришли из статистики, отсутствующий URI дает ноль
		assert.Equal(t, int64(5), enriched[0].Views)
		assert.Equal(t, int64(0), enriched[1].Views)

		// Подтвержденные заявки посчитаны по репозиторию
		assert.Equal(t, int64(1), enriched[0].ConfirmedRequests)
		assert.Equal(t, int64(0), enriched[1].ConfirmedRequests)

		// Ровно один запрос: уникальные IP, окно от самой ранней даты
		// создания, URI обоих событий
		assert.Equal(t, 1, statsClient.getStatsCalls)
		assert.True(t, statsClient.lastUnique)
		assert.Equal(t, earlier.Time, statsClient.lastStart)
		assert.WithinDuration(t, time.Now(), statsClient.lastEnd, time.Minute)
		assert.ElementsMatch(t, []string{eventURI(first.ID), eventURI(second.ID)}, statsClient.lastURIs)
	})

	t.Run("пустой набор не обращается к статистике", func(t *testing.T) {
		env := newTestEnv()
		statsClient := &fakeStatsClient{}
		svc := NewStatService(statsClient, env.requests, "afisha-main-service")

		enriched, err := svc.EnrichEvents(context.Background(), nil)

		require.NoError(t, err)
		assert.NotNil(t, enriched)
		assert.Empty(t, enriched)
		assert.Zero(t, statsClient.getStatsCalls)
	})

	t.Run("недоступность статистики передается наружу", func(t *testing.T) {
		env := newTestEnv()
		initiator := env.seedUser(t, "Организатор", "owner@example.com")
		event := env.seedEvent(t, initiator, entity.EventStatePublished, 10, true)

		statsClient := &fakeStatsClient{statsErr: entity.ErrStatsUnavailable}
		svc := NewStatService(statsClient, env.requests, "afisha-main-service")

		_, err := svc.EnrichEvents(context.Background(), []*entity.Event{event})

		require.ErrorIs(t, err, entity.ErrStatsUnavailable)
	})
}

// TestEnrichEvent тестирует обогащение одиночного события
func TestEnrichEvent(t *testing.T) {
	env := newTestEnv()
	initiator := env.seedUser(t, "Организатор", "owner@example.com")
	event := env.seedEvent(t, initiator, entity.EventStatePublished, 10, true)

	statsClient := &fakeStatsClient{stats: []*entity.ViewStats{
		{App: "afisha-main-service", URI: eventURI(event.ID), Hits: 12},
	}}
	svc := NewStatService(statsClient, env.requests, "afisha-main-service")

	enriched, err := svc.EnrichEvent(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, event.ID, enriched.ID)
	assert.Equal(t, int64(12), enriched.Views)
}
