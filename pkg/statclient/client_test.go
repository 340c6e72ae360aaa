package statclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afisha-dev/afisha/internal/entity"
)

// TestSaveHit тестирует отправку записи о просмотре
func TestSaveHit(t *testing.T) {
	t.Run("запись уходит в формате JSON", func(t *testing.T) {
		var received entity.EndpointHit
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/hit", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)
		err := client.SaveHit(context.Background(), &entity.EndpointHit{
			App:       "afisha-main-service",
			URI:       "/events/7",
			IP:        "192.168.0.1",
			Timestamp: entity.NewEventTime(time.Now()),
		})

		require.NoError(t, err)
		assert.Equal(t, "afisha-main-service", received.App)
		assert.Equal(t, "/events/7", received.URI)
	})

	t.Run("ошибка сервера означает потерянный просмотр", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)
		err := client.SaveHit(context.Background(), &entity.EndpointHit{
			App:       "afisha-main-service",
			URI:       "/events/7",
			IP:        "192.168.0.1",
			Timestamp: entity.NewEventTime(time.Now()),
		})

		require.ErrorIs(t, err, entity.ErrHitNotSaved)
	})

	t.Run("недоступный сервис дает инфраструктурную ошибку", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
		err := client.SaveHit(context.Background(), &entity.EndpointHit{
			App:       "afisha-main-service",
			URI:       "/events/7",
			IP:        "192.168.0.1",
			Timestamp: entity.NewEventTime(time.Now()),
		})

		require.ErrorIs(t, err, entity.ErrStatsUnavailable)
	})
}

// TestGetStats тестирует запрос агрегированных просмотров
func TestGetStats(t *testing.T) {
	start, err := entity.ParseEventTime("2026-08-01 00:00:00")
	require.NoError(t, err)
	end, err := entity.ParseEventTime("2026-08-31 23:59:59")
	require.NoError(t, err)

	t.Run("параметры запроса и разбор ответа", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/stats", r.URL.Path)
			query := r.URL.Query()
			assert.Equal(t, "2026-08-01 00:00:00", query.Get("start"))
			assert.Equal(t, "2026-08-31 23:59:59", query.Get("end"))
			assert.Equal(t, []string{"/events/1", "/events/2"}, query["uris"])
			assert.Equal(t, "true", query.Get("unique"))

			w.Header().Set("Content-Type", "application/json")
			require.NoError(t, json.NewEncoder(w).Encode([]*entity.ViewStats{
				{App: "afisha-main-service", URI: "/events/1", Hits: 5},
			}))
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)
		stats, err := client.GetStats(context.Background(), start.Time, end.Time, []string{"/events/1", "/events/2"}, true)

		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, "/events/1", stats[0].URI)
		assert.Equal(t, int64(5), stats[0].Hits)
	})

	t.Run("искаженный ответ дает ошибку разбора", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)
		_, err := client.GetStats(context.Background(), start.Time, end.Time, nil, false)

		require.ErrorIs(t, err, entity.ErrStatsResponse)
	})

	t.Run("ошибка сервера означает недоступность статистики", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)
		_, err := client.GetStats(context.Background(), start.Time, end.Time, nil, false)

		require.ErrorIs(t, err, entity.ErrStatsUnavailable)
	})
}
