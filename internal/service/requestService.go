package service

import (
	"context"
	"time"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/sirupsen/logrus"
)

// RequestStatusUpdateRequest представляет пакетное решение владельца
// по заявкам: подтвердить или отклонить перечисленные идентификаторы.
type RequestStatusUpdateRequest struct {
	RequestIDs []int64              `json:"requestIds" binding:"required"`
	Status     entity.RequestStatus `json:"status" binding:"required"`
}

type requestService struct {
	requestRepo repository.RequestRepository
	eventRepo   repository.EventRepository
	userRepo    repository.UserRepository
}

// NewRequestService создает новый экземпляр RequestService
func NewRequestService(
	requestRepo repository.RequestRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
	}
}

// AddRequest создает заявку на участие. Дубликат и вместимость
// перепроверяются в репозитории под блокировкой строки события.
func (s *requestService) AddRequest(ctx context.Context, userID, eventID int64) (*entity.ParticipationRequest, error) {
	if exists, err := s.userRepo.ExistsByID(ctx, userID); err != nil {
		return nil, err
	} else if !exists {
		return nil, entity.ErrUserNotFound
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.Initiator.ID == userID {
		return nil, entity.ErrOwnEventRequest
	}
	if event.State != entity.EventStatePublished {
		return nil, entity.ErrEventNotPublished
	}

	if event.ParticipantLimit > 0 {
		confirmed, err := s.requestRepo.CountConfirmed(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if confirmed >= int64(event.ParticipantLimit) {
			return nil, entity.ErrParticipantLimitReached
		}
	}

	status := entity.RequestStatusPending
	if !event.RequestModeration || event.ParticipantLimit == 0 {
		status = entity.RequestStatusConfirmed
	}

	request := &entity.ParticipationRequest{
		Created:     entity.NewEventTime(time.Now()),
		EventID:     eventID,
		RequesterID: userID,
		Status:      status,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id": request.ID,
		"event_id":   eventID,
		"requester":  userID,
		"status":     request.Status,
	}).Info("заявка на участие создана")

	return request, nil
}

// GetUserRequests возвращает заявки пользователя
func (s *requestService) GetUserRequests(ctx context.Context, userID int64) ([]*entity.ParticipationRequest, error) {
	if exists, err := s.userRepo.ExistsByID(ctx, userID); err != nil {
		return nil, err
	} else if !exists {
		return nil, entity.ErrUserNotFound
	}
	return s.requestRepo.GetByRequester(ctx, userID)
}

// CancelRequest отменяет собственную заявку. Отмена разрешена из
// любого статуса, в том числе повторная.
func (s *requestService) CancelRequest(ctx context.Context, userID, requestID int64) (*entity.ParticipationRequest, error) {
	request, err := s.requestRepo.GetByIDAndRequester(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.UpdateStatus(ctx, requestID, entity.RequestStatusCanceled); err != nil {
		return nil, err
	}

	request.Status = entity.RequestStatusCanceled
	return request, nil
}

// GetEventRequests возвращает заявки на событие его владельцу
func (s *requestService) GetEventRequests(ctx context.Context, userID, eventID int64) ([]*entity.ParticipationRequest, error) {
	if _, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID); err != nil {
		return nil, err
	}
	return s.requestRepo.GetByEvent(ctx, eventID)
}

// UpdateRequestsStatus обрабатывает пакет заявок: подтверждает в
// исходном порядке, пока остаются места, остальные отклоняет.
// Итог фиксируется одной транзакцией с повторной проверкой лимита.
func (s *requestService) UpdateRequestsStatus(ctx context.Context, userID, eventID int64, req *RequestStatusUpdateRequest) (*entity.RequestStatusUpdateResult, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Initiator.ID != userID {
		return nil, entity.ErrNotInitiator
	}

	result := &entity.RequestStatusUpdateResult{
		ConfirmedRequests: []entity.ParticipationRequest{},
		RejectedRequests:  []entity.ParticipationRequest{},
	}

	// Событие без модерации и без лимита подтверждает заявки при
	// создании, владельцу нечего решать.
	if !event.RequestModeration || event.ParticipantLimit == 0 {
		return result, nil
	}

	confirmed, err := s.requestRepo.CountConfirmed(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// Заполненное событие отклоняет пакет целиком, каким бы ни был
	// целевой статус.
	if confirmed >= int64(event.ParticipantLimit) {
		return nil, entity.ErrParticipantLimitReached
	}

	pending, err := s.requestRepo.GetPendingByEventAndIDs(ctx, eventID, req.RequestIDs)
	if err != nil {
		return nil, err
	}

	var confirmedIDs, rejectedIDs []int64
	confirmedSoFar := confirmed
	for _, request := range pending {
		switch {
		case req.Status == entity.RequestStatusRejected:
			request.Status = entity.RequestStatusRejected
			rejectedIDs = append(rejectedIDs, request.ID)
			result.RejectedRequests = append(result.RejectedRequests, *request)
		case confirmedSoFar < int64(event.ParticipantLimit):
			request.Status = entity.RequestStatusConfirmed
			confirmedIDs = append(confirmedIDs, request.ID)
			result.ConfirmedRequests = append(result.ConfirmedRequests, *request)
			confirmedSoFar++
		default:
			request.Status = entity.RequestStatusRejected
			rejectedIDs = append(rejectedIDs, request.ID)
			result.RejectedRequests = append(result.RejectedRequests, *request)
		}
	}

	if err := s.requestRepo.ApplyStatusUpdate(ctx, eventID, event.ParticipantLimit, confirmedIDs, rejectedIDs); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"event_id":  eventID,
		"confirmed": len(confirmedIDs),
		"rejected":  len(rejectedIDs),
	}).Info("статусы заявок обновлены")

	return result, nil
}
