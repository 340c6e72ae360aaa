package repository

import (
	"context"
	"time"

	"github.com/afisha-dev/afisha/internal/entity"
)

// AdminEventsFilter — параметры поиска событий администратором.
// Пустое поле означает отсутствие фильтра.
type AdminEventsFilter struct {
	Users      []int64
	States     []string
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
	Limit      int
	Offset     int
}

// PublicEventsFilter — параметры публичного поиска. Всегда отдаёт
// только опубликованные события; RangeStart обязателен (по умолчанию
// сервис подставляет текущее время).
type PublicEventsFilter struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Limit         int
	Offset        int
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	GetByIDAndInitiator(ctx context.Context, eventID, userID int64) (*entity.Event, error)
	GetByInitiator(ctx context.Context, userID int64, limit, offset int) ([]*entity.Event, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error

	SearchAdmin(ctx context.Context, filter *AdminEventsFilter) ([]*entity.Event, error)
	SearchPublic(ctx context.Context, filter *PublicEventsFilter) ([]*entity.Event, error)

	GetOrCreateLocation(ctx context.Context, location entity.Location) (entity.Location, error)
	ExistsByCategory(ctx context.Context, categoryID int64) (bool, error)
}

type RequestRepository interface {
	// Create re-verifies the duplicate and capacity invariants inside a
	// transaction holding a row lock on the event.
	Create(ctx context.Context, request *entity.ParticipationRequest) error
	GetByIDAndRequester(ctx context.Context, requestID, userID int64) (*entity.ParticipationRequest, error)
	UpdateStatus(ctx context.Context, id int64, status entity.RequestStatus) error

	GetByRequester(ctx context.Context, userID int64) ([]*entity.ParticipationRequest, error)
	GetByEvent(ctx context.Context, eventID int64) ([]*entity.ParticipationRequest, error)
	GetPendingByEventAndIDs(ctx context.Context, eventID int64, ids []int64) ([]*entity.ParticipationRequest, error)

	// ApplyStatusUpdate persists a confirm/reject partition in one
	// transaction, re-checking the participant limit under the event lock.
	ApplyStatusUpdate(ctx context.Context, eventID int64, participantLimit int, confirmedIDs, rejectedIDs []int64) error

	CountConfirmed(ctx context.Context, eventID int64) (int64, error)
	CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetAll(ctx context.Context, limit, offset int) ([]*entity.Category, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetAll(ctx context.Context, ids []int64, limit, offset int) ([]*entity.User, error)
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	Update(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id int64) (*entity.Comment, error)
	GetByEvent(ctx context.Context, eventID int64, limit, offset int) ([]*entity.Comment, error)
	GetByAuthor(ctx context.Context, userID int64, limit, offset int) ([]*entity.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type CompilationRepository interface {
	Create(ctx context.Context, compilation *entity.Compilation, eventIDs []int64) error
	Update(ctx context.Context, id int64, title *string, pinned *bool, eventIDs []int64, replaceEvents bool) error
	GetByID(ctx context.Context, id int64) (*entity.Compilation, error)
	GetAll(ctx context.Context, pinned *bool, limit, offset int) ([]*entity.Compilation, error)
	GetEventIDs(ctx context.Context, compilationID int64) ([]int64, error)
	Delete(ctx context.Context, id int64) error
}

type HitRepository interface {
	Save(ctx context.Context, hit *entity.EndpointHit) error
	GetBetween(ctx context.Context, start, end time.Time, uris []string) ([]*entity.EndpointHit, error)
}
