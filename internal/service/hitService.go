package service

import (
	"context"
	"sort"
	"time"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/sirupsen/logrus"
)

type hitService struct {
	hitRepo repository.HitRepository
}

// NewHitService создает новый экземпляр HitService
func NewHitService(hitRepo repository.HitRepository) HitService {
	return &hitService{hitRepo: hitRepo}
}

// SaveHit сохраняет запись о просмотре. Записи неизменяемы,
// отметка времени не может быть из будущего.
func (s *hitService) SaveHit(ctx context.Context, hit *entity.EndpointHit) error {
	if hit.Timestamp.After(time.Now()) {
		return entity.ErrHitTimestampInFuture
	}

	if err := s.hitRepo.Save(ctx, hit); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"app": hit.App,
		"uri": hit.URI,
	}).Debug("просмотр сохранен")

	return nil
}

// GetStats агрегирует просмотры за окно [start, end] включительно.
// При unique каждый IP в паре (app, uri) считается один раз.
// Результат отсортирован по убыванию количества просмотров.
func (s *hitService) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*entity.ViewStats, error) {
	if start.After(end) {
		return nil, entity.ErrInvalidDateRange
	}

	hits, err := s.hitRepo.GetBetween(ctx, start, end, uris)
	if err != nil {
		return nil, err
	}

	type key struct {
		app string
		uri string
	}

	counts := make(map[key]int64)
	seenIPs := make(map[key]map[string]struct{})
	var order []key

	for _, hit := range hits {
		k := key{app: hit.App, uri: hit.URI}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		if unique {
			ips, ok := seenIPs[k]
			if !ok {
				ips = make(map[string]struct{})
				seenIPs[k] = ips
			}
			if _, seen := ips[hit.IP]; seen {
				continue
			}
			ips[hit.IP] = struct{}{}
		}
		counts[k]++
	}

	stats := make([]*entity.ViewStats, 0, len(counts))
	for _, k := range order {
		stats = append(stats, &entity.ViewStats{
			App:  k.app,
			URI:  k.uri,
			Hits: counts[k],
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Hits > stats[j].Hits
	})

	return stats, nil
}
