package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEventTimeUnmarshalJSON тестирует разбор отметки времени из JSON
func TestEventTimeUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "строка в принятом формате",
			input: `"2026-08-31 12:00:00"`,
			want:  time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "null оставляет нулевое значение",
			input: `null`,
			want:  time.Time{},
		},
		{
			name:    "число вместо строки отклоняется",
			input:   `5`,
			wantErr: true,
		},
		{
			name:    "пустое значение отклоняется",
			input:   ``,
			wantErr: true,
		},
		{
			name:    "незакрытая кавычка отклоняется",
			input:   `"2026-08-31 12:00:00`,
			wantErr: true,
		},
		{
			name:    "чужой формат даты отклоняется",
			input:   `"31.08.2026 12:00"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var et EventTime
			err := et.UnmarshalJSON([]byte(tt.input))

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(et.Time))
		})
	}
}

// TestEventTimeRoundTrip тестирует сериализацию внутри структуры
func TestEventTimeRoundTrip(t *testing.T) {
	hit := EndpointHit{
		App:       "afisha-main-service",
		URI:       "/events/1",
		IP:        "192.168.0.1",
		Timestamp: EventTime{Time: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)},
	}

	body, err := json.Marshal(hit)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"timestamp":"2026-08-31 12:00:00"`)

	var decoded EndpointHit
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.True(t, hit.Timestamp.Equal(decoded.Timestamp.Time))

	// Число на месте отметки времени дает ошибку разбора, а не панику
	err = json.Unmarshal([]byte(`{"timestamp": 5}`), &decoded)
	require.Error(t, err)
}
