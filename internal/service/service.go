package service

import (
	"context"
	"time"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
)

// EventService определяет операции над событиями для всех трёх
// контуров доступа: владельца, администратора и публичного.
type EventService interface {
	// Операции владельца
	CreateEvent(ctx context.Context, userID int64, req *NewEventRequest) (*entity.EventDetails, error)
	GetUserEvents(ctx context.Context, userID int64, from, size int) ([]*entity.EventWithStats, error)
	GetUserEvent(ctx context.Context, userID, eventID int64) (*entity.EventWithStats, error)
	UpdateUserEvent(ctx context.Context, userID, eventID int64, req *UpdateEventUserRequest) (*entity.EventWithStats, error)

	// Операции администратора
	SearchEventsAdmin(ctx context.Context, query *AdminEventsQuery) ([]*entity.EventWithStats, error)
	UpdateEventAdmin(ctx context.Context, eventID int64, req *UpdateEventAdminRequest) (*entity.EventWithStats, error)

	// Публичные операции
	SearchEventsPublic(ctx context.Context, query *PublicEventsQuery) ([]*entity.EventWithStats, error)
	GetEventPublic(ctx context.Context, eventID int64) (*entity.EventWithStats, error)
}

// RequestService определяет операции над заявками на участие.
type RequestService interface {
	AddRequest(ctx context.Context, userID, eventID int64) (*entity.ParticipationRequest, error)
	GetUserRequests(ctx context.Context, userID int64) ([]*entity.ParticipationRequest, error)
	CancelRequest(ctx context.Context, userID, requestID int64) (*entity.ParticipationRequest, error)

	GetEventRequests(ctx context.Context, userID, eventID int64) ([]*entity.ParticipationRequest, error)
	UpdateRequestsStatus(ctx context.Context, userID, eventID int64, req *RequestStatusUpdateRequest) (*entity.RequestStatusUpdateResult, error)
}

// StatService связывает события с внешним сервисом статистики:
// запись просмотров и обогащение событий счётчиками.
type StatService interface {
	RecordHit(ctx context.Context, uri, ip string) error
	EnrichEvent(ctx context.Context, event *entity.Event) (*entity.EventWithStats, error)
	EnrichEvents(ctx context.Context, events []*entity.Event) ([]*entity.EventWithStats, error)
}

// StatsClient — узкий HTTP-клиент сервиса статистики.
type StatsClient interface {
	SaveHit(ctx context.Context, hit *entity.EndpointHit) error
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*entity.ViewStats, error)
}

type CategoryService interface {
	CreateCategory(ctx context.Context, req *CategoryRequest) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *CategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategory(ctx context.Context, id int64) (*entity.Category, error)
	GetCategories(ctx context.Context, from, size int) ([]*entity.Category, error)
}

type UserService interface {
	CreateUser(ctx context.Context, req *NewUserRequest) (*entity.User, error)
	GetUsers(ctx context.Context, ids []int64, from, size int) ([]*entity.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type CommentService interface {
	AddComment(ctx context.Context, userID, eventID int64, req *CommentRequest) (*entity.Comment, error)
	UpdateComment(ctx context.Context, userID, eventID, commentID int64, req *CommentRequest) (*entity.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID int64) error
	GetUserComments(ctx context.Context, userID int64, from, size int) ([]*entity.Comment, error)

	GetComment(ctx context.Context, id int64) (*entity.Comment, error)
	GetEventComments(ctx context.Context, eventID int64, from, size int) ([]*entity.Comment, error)

	DeleteCommentAdmin(ctx context.Context, id int64) error
}

type CompilationService interface {
	CreateCompilation(ctx context.Context, req *NewCompilationRequest) (*entity.Compilation, error)
	UpdateCompilation(ctx context.Context, id int64, req *UpdateCompilationRequest) (*entity.Compilation, error)
	DeleteCompilation(ctx context.Context, id int64) error
	GetCompilation(ctx context.Context, id int64) (*entity.Compilation, error)
	GetCompilations(ctx context.Context, pinned *bool, from, size int) ([]*entity.Compilation, error)
}

// HitService — операции сервиса статистики.
type HitService interface {
	SaveHit(ctx context.Context, hit *entity.EndpointHit) error
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*entity.ViewStats, error)
}

// pageOffset преобразует пагинацию from/size в смещение: запрос
// интерпретируется как страница с индексом from/size.
func pageOffset(from, size int) int {
	if size <= 0 {
		return 0
	}
	return (from / size) * size
}

// confirmedCounts достаёт подтверждённые заявки пачкой для набора событий.
// Для события без заявок карта отдаёт ноль.
func confirmedCounts(ctx context.Context, repo repository.RequestRepository, events []*entity.Event) (map[int64]int64, error) {
	if len(events) == 0 {
		return map[int64]int64{}, nil
	}
	ids := make([]int64, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}
	return repo.CountConfirmedByEvents(ctx, ids)
}
