package service

import (
	"context"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/sirupsen/logrus"
)

// NewCompilationRequest представляет данные для создания подборки
type NewCompilationRequest struct {
	Title  string  `json:"title" binding:"required,min=1,max=50"`
	Pinned bool    `json:"pinned"`
	Events []int64 `json:"events"`
}

// UpdateCompilationRequest представляет правку подборки. Поле events,
// присутствующее в запросе, целиком заменяет состав подборки.
type UpdateCompilationRequest struct {
	Title  *string  `json:"title" binding:"omitempty,min=1,max=50"`
	Pinned *bool    `json:"pinned"`
	Events *[]int64 `json:"events"`
}

type compilationService struct {
	compilationRepo repository.CompilationRepository
	eventRepo       repository.EventRepository
	requestRepo     repository.RequestRepository
}

// NewCompilationService создает новый экземпляр CompilationService
func NewCompilationService(
	compilationRepo repository.CompilationRepository,
	eventRepo repository.EventRepository,
	requestRepo repository.RequestRepository,
) CompilationService {
	return &compilationService{
		compilationRepo: compilationRepo,
		eventRepo:       eventRepo,
		requestRepo:     requestRepo,
	}
}

// CreateCompilation создает подборку событий
func (s *compilationService) CreateCompilation(ctx context.Context, req *NewCompilationRequest) (*entity.Compilation, error) {
	if len(req.Events) > 0 {
		events, err := s.eventRepo.GetByIDs(ctx, req.Events)
		if err != nil {
			return nil, err
		}
		if len(events) != len(req.Events) {
			return nil, entity.ErrEventNotFound
		}
	}

	compilation := &entity.Compilation{
		Title:  req.Title,
		Pinned: req.Pinned,
	}
	if err := s.compilationRepo.Create(ctx, compilation, req.Events); err != nil {
		return nil, err
	}

	logrus.WithField("compilation_id", compilation.ID).Info("подборка создана")

	return s.GetCompilation(ctx, compilation.ID)
}

// UpdateCompilation правит подборку
func (s *compilationService) UpdateCompilation(ctx context.Context, id int64, req *UpdateCompilationRequest) (*entity.Compilation, error) {
	var eventIDs []int64
	replaceEvents := req.Events != nil
	if replaceEvents {
		eventIDs = *req.Events
		if len(eventIDs) > 0 {
			events, err := s.eventRepo.GetByIDs(ctx, eventIDs)
			if err != nil {
				return nil, err
			}
			if len(events) != len(eventIDs) {
				return nil, entity.ErrEventNotFound
			}
		}
	}

	if err := s.compilationRepo.Update(ctx, id, req.Title, req.Pinned, eventIDs, replaceEvents); err != nil {
		return nil, err
	}

	return s.GetCompilation(ctx, id)
}

// DeleteCompilation удаляет подборку
func (s *compilationService) DeleteCompilation(ctx context.Context, id int64) error {
	return s.compilationRepo.Delete(ctx, id)
}

// GetCompilation возвращает подборку с событиями и числом
// подтвержденных заявок по каждому.
func (s *compilationService) GetCompilation(ctx context.Context, id int64) (*entity.Compilation, error) {
	compilation, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadEvents(ctx, compilation); err != nil {
		return nil, err
	}
	return compilation, nil
}

// GetCompilations возвращает страницу подборок
func (s *compilationService) GetCompilations(ctx context.Context, pinned *bool, from, size int) ([]*entity.Compilation, error) {
	compilations, err := s.compilationRepo.GetAll(ctx, pinned, size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}

	for _, compilation := range compilations {
		if err := s.loadEvents(ctx, compilation); err != nil {
			return nil, err
		}
	}
	return compilations, nil
}

func (s *compilationService) loadEvents(ctx context.Context, compilation *entity.Compilation) error {
	ids, err := s.compilationRepo.GetEventIDs(ctx, compilation.ID)
	if err != nil {
		return err
	}

	compilation.Events = []entity.EventDetails{}
	if len(ids) == 0 {
		return nil
	}

	events, err := s.eventRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	confirmed, err := confirmedCounts(ctx, s.requestRepo, events)
	if err != nil {
		return err
	}

	for _, event := range events {
		compilation.Events = append(compilation.Events, entity.EventDetails{
			Event:             *event,
			ConfirmedRequests: confirmed[event.ID],
		})
	}
	return nil
}
