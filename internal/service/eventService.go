package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/sirupsen/logrus"
)

// Минимальный запас между текущим моментом и датой события.
const minEventLead = 2 * time.Hour

// NewEventRequest представляет данные для создания события
type NewEventRequest struct {
	Annotation        string           `json:"annotation" binding:"required,min=20,max=2000"`
	Category          int64            `json:"category" binding:"required"`
	Description       string           `json:"description" binding:"required,min=20,max=7000"`
	EventDate         entity.EventTime `json:"eventDate" binding:"required"`
	Location          entity.Location  `json:"location" binding:"required"`
	Paid              bool             `json:"paid"`
	ParticipantLimit  int              `json:"participantLimit" binding:"min=0"`
	RequestModeration *bool            `json:"requestModeration"`
	Title             string           `json:"title" binding:"required,min=3,max=120"`
}

// UpdateEventUserRequest представляет правку события владельцем.
// Отсутствующее поле оставляет прежнее значение.
type UpdateEventUserRequest struct {
	Annotation        *string           `json:"annotation" binding:"omitempty,min=20,max=2000"`
	Category          *int64            `json:"category"`
	Description       *string           `json:"description" binding:"omitempty,min=20,max=7000"`
	EventDate         *entity.EventTime `json:"eventDate"`
	Location          *entity.Location  `json:"location"`
	Paid              *bool             `json:"paid"`
	ParticipantLimit  *int              `json:"participantLimit" binding:"omitempty,min=0"`
	RequestModeration *bool             `json:"requestModeration"`
	StateAction       string            `json:"stateAction"`
	Title             *string           `json:"title" binding:"omitempty,min=3,max=120"`
}

// UpdateEventAdminRequest представляет правку события администратором
type UpdateEventAdminRequest struct {
	Annotation        *string           `json:"annotation" binding:"omitempty,min=20,max=2000"`
	Category          *int64            `json:"category"`
	Description       *string           `json:"description" binding:"omitempty,min=20,max=7000"`
	EventDate         *entity.EventTime `json:"eventDate"`
	Location          *entity.Location  `json:"location"`
	Paid              *bool             `json:"paid"`
	ParticipantLimit  *int              `json:"participantLimit" binding:"omitempty,min=0"`
	RequestModeration *bool             `json:"requestModeration"`
	StateAction       string            `json:"stateAction"`
	Title             *string           `json:"title" binding:"omitempty,min=3,max=120"`
}

// AdminEventsQuery — параметры административного поиска событий
type AdminEventsQuery struct {
	Users      []int64
	States     []string
	Categories []int64
	RangeStart *entity.EventTime
	RangeEnd   *entity.EventTime
	From       int
	Size       int
}

// PublicEventsQuery — параметры публичного поиска событий
type PublicEventsQuery struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    *entity.EventTime
	RangeEnd      *entity.EventTime
	OnlyAvailable bool
	Sort          string
	From          int
	Size          int
}

type eventService struct {
	eventRepo    repository.EventRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	stats        StatService
}

// NewEventService создает новый экземпляр EventService
func NewEventService(
	eventRepo repository.EventRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	stats StatService,
) EventService {
	return &eventService{
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		stats:        stats,
	}
}

// CreateEvent создает событие в состоянии PENDING
func (s *eventService) CreateEvent(ctx context.Context, userID int64, req *NewEventRequest) (*entity.EventDetails, error) {
	if req.EventDate.Before(time.Now().Add(minEventLead)) {
		return nil, entity.ErrEventDateTooSoon
	}

	initiator, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	location, err := s.eventRepo.GetOrCreateLocation(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	requestModeration := true
	if req.RequestModeration != nil {
		requestModeration = *req.RequestModeration
	}

	event := &entity.Event{
		Annotation:        req.Annotation,
		Category:          *category,
		CreatedOn:         entity.NewEventTime(time.Now()),
		Description:       req.Description,
		EventDate:         req.EventDate,
		Initiator:         *initiator,
		Location:          location,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: requestModeration,
		State:             entity.EventStatePending,
		Title:             req.Title,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"event_id":  event.ID,
		"initiator": userID,
	}).Info("событие создано")

	return &entity.EventDetails{Event: *event}, nil
}

// GetUserEvents возвращает события владельца со статистикой просмотров
func (s *eventService) GetUserEvents(ctx context.Context, userID int64, from, size int) ([]*entity.EventWithStats, error) {
	if exists, err := s.userRepo.ExistsByID(ctx, userID); err != nil {
		return nil, err
	} else if !exists {
		return nil, entity.ErrUserNotFound
	}

	events, err := s.eventRepo.GetByInitiator(ctx, userID, size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}

	return s.stats.EnrichEvents(ctx, events)
}

// GetUserEvent возвращает одно событие владельца со статистикой
func (s *eventService) GetUserEvent(ctx context.Context, userID, eventID int64) (*entity.EventWithStats, error) {
	event, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	return s.stats.EnrichEvent(ctx, event)
}

// UpdateUserEvent правит событие владельцем. Опубликованное событие
// менять нельзя.
func (s *eventService) UpdateUserEvent(ctx context.Context, userID, eventID int64, req *UpdateEventUserRequest) (*entity.EventWithStats, error) {
	event, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	if event.State == entity.EventStatePublished {
		return nil, entity.ErrPublishedEventUpdate
	}

	patch := &eventPatch{
		Annotation:        req.Annotation,
		Category:          req.Category,
		Description:       req.Description,
		EventDate:         req.EventDate,
		Location:          req.Location,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.RequestModeration,
		Title:             req.Title,
	}
	if err := s.applyEventPatch(ctx, event, patch); err != nil {
		return nil, err
	}

	switch entity.StateActionPrivate(req.StateAction) {
	case entity.StateActionSendToReview:
		event.State = entity.EventStatePending
	case entity.StateActionCancelReview:
		event.State = entity.EventStateCanceled
	default:
		if req.StateAction != "" {
			return nil, fmt.Errorf("%w: %s", entity.ErrUnknownStateAction, req.StateAction)
		}
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return s.stats.EnrichEvent(ctx, event)
}

// SearchEventsAdmin возвращает события по фильтру администратора
func (s *eventService) SearchEventsAdmin(ctx context.Context, query *AdminEventsQuery) ([]*entity.EventWithStats, error) {
	filter := &repository.AdminEventsFilter{
		Users:      query.Users,
		States:     query.States,
		Categories: query.Categories,
		Limit:      query.Size,
		Offset:     pageOffset(query.From, query.Size),
	}
	if query.RangeStart != nil {
		filter.RangeStart = &query.RangeStart.Time
	}
	if query.RangeEnd != nil {
		filter.RangeEnd = &query.RangeEnd.Time
	}
	if filter.RangeStart != nil && filter.RangeEnd != nil && filter.RangeStart.After(*filter.RangeEnd) {
		return nil, entity.ErrInvalidDateRange
	}

	events, err := s.eventRepo.SearchAdmin(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.stats.EnrichEvents(ctx, events)
}

// UpdateEventAdmin правит событие администратором: публикация требует
// состояния PENDING, отклонить опубликованное нельзя.
func (s *eventService) UpdateEventAdmin(ctx context.Context, eventID int64, req *UpdateEventAdminRequest) (*entity.EventWithStats, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	patch := &eventPatch{
		Annotation:        req.Annotation,
		Category:          req.Category,
		Description:       req.Description,
		EventDate:         req.EventDate,
		Location:          req.Location,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.RequestModeration,
		Title:             req.Title,
	}
	if err := s.applyEventPatch(ctx, event, patch); err != nil {
		return nil, err
	}

	switch entity.StateActionAdmin(req.StateAction) {
	case entity.StateActionPublishEvent:
		if event.State != entity.EventStatePending {
			return nil, entity.ErrPublishNotPending
		}
		publishedOn := entity.NewEventTime(time.Now())
		event.PublishedOn = &publishedOn
		event.State = entity.EventStatePublished
	case entity.StateActionRejectEvent:
		if event.State == entity.EventStatePublished {
			return nil, entity.ErrRejectPublished
		}
		event.State = entity.EventStateCanceled
	default:
		if req.StateAction != "" {
			return nil, fmt.Errorf("%w: %s", entity.ErrUnknownStateAction, req.StateAction)
		}
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"state":    event.State,
	}).Info("состояние события изменено администратором")

	return s.stats.EnrichEvent(ctx, event)
}

// SearchEventsPublic возвращает опубликованные события по публичному
// фильтру. Без границ диапазона показываются только будущие события.
func (s *eventService) SearchEventsPublic(ctx context.Context, query *PublicEventsQuery) ([]*entity.EventWithStats, error) {
	sortBy := entity.EventSort(query.Sort)
	if query.Sort != "" && sortBy != entity.EventSortDate && sortBy != entity.EventSortViews {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnknownSort, query.Sort)
	}

	filter := &repository.PublicEventsFilter{
		Text:          query.Text,
		Categories:    query.Categories,
		Paid:          query.Paid,
		OnlyAvailable: query.OnlyAvailable,
		Limit:         query.Size,
		Offset:        pageOffset(query.From, query.Size),
	}
	if query.RangeStart != nil {
		filter.RangeStart = query.RangeStart.Time
	} else {
		filter.RangeStart = time.Now()
	}
	if query.RangeEnd != nil {
		// Диапазон проверяется только по явно заданным границам,
		// подставленное начало ошибку не вызывает.
		if query.RangeStart != nil && query.RangeStart.After(query.RangeEnd.Time) {
			return nil, entity.ErrInvalidDateRange
		}
		filter.RangeEnd = &query.RangeEnd.Time
	}

	events, err := s.eventRepo.SearchPublic(ctx, filter)
	if err != nil {
		return nil, err
	}

	enriched, err := s.stats.EnrichEvents(ctx, events)
	if err != nil {
		return nil, err
	}

	// Сортировка по просмотрам возможна только после обращения к
	// сервису статистики, по дате события сортирует SQL.
	if sortBy == entity.EventSortViews {
		sort.SliceStable(enriched, func(i, j int) bool {
			return enriched[i].Views > enriched[j].Views
		})
	}

	return enriched, nil
}

// GetEventPublic возвращает опубликованное событие. Неопубликованные
// для публичного доступа не существуют.
func (s *eventService) GetEventPublic(ctx context.Context, eventID int64) (*entity.EventWithStats, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != entity.EventStatePublished {
		return nil, entity.ErrEventNotFound
	}
	return s.stats.EnrichEvent(ctx, event)
}

// eventPatch — общий набор необязательных правок события.
type eventPatch struct {
	Annotation        *string
	Category          *int64
	Description       *string
	EventDate         *entity.EventTime
	Location          *entity.Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	Title             *string
}

// applyEventPatch накладывает правки на событие. Пустые строки
// игнорируются, новая дата проверяется тем же правилом двух часов.
func (s *eventService) applyEventPatch(ctx context.Context, event *entity.Event, patch *eventPatch) error {
	if patch.Annotation != nil && strings.TrimSpace(*patch.Annotation) != "" {
		event.Annotation = *patch.Annotation
	}
	if patch.Category != nil {
		category, err := s.categoryRepo.GetByID(ctx, *patch.Category)
		if err != nil {
			return err
		}
		event.Category = *category
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) != "" {
		event.Description = *patch.Description
	}
	if patch.EventDate != nil {
		if patch.EventDate.Before(time.Now().Add(minEventLead)) {
			return entity.ErrEventDateTooSoon
		}
		event.EventDate = *patch.EventDate
	}
	if patch.Location != nil {
		location, err := s.eventRepo.GetOrCreateLocation(ctx, *patch.Location)
		if err != nil {
			return err
		}
		event.Location = location
	}
	if patch.Paid != nil {
		event.Paid = *patch.Paid
	}
	if patch.ParticipantLimit != nil {
		event.ParticipantLimit = *patch.ParticipantLimit
	}
	if patch.RequestModeration != nil {
		event.RequestModeration = *patch.RequestModeration
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		event.Title = *patch.Title
	}
	return nil
}
