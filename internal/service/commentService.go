package service

import (
	"context"
	"time"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/sirupsen/logrus"
)

// CommentRequest представляет текст нового или исправленного комментария
type CommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=2000"`
}

type commentService struct {
	commentRepo repository.CommentRepository
	eventRepo   repository.EventRepository
	userRepo    repository.UserRepository
}

// NewCommentService создает новый экземпляр CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
	}
}

// AddComment добавляет комментарий к опубликованному событию
func (s *commentService) AddComment(ctx context.Context, userID, eventID int64, req *CommentRequest) (*entity.Comment, error) {
	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != entity.EventStatePublished {
		return nil, entity.ErrCommentNotPublished
	}

	comment := &entity.Comment{
		Text:    req.Text,
		Author:  *author,
		EventID: eventID,
		Created: entity.NewEventTime(time.Now()),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"comment_id": comment.ID,
		"event_id":   eventID,
		"author":     userID,
	}).Info("комментарий добавлен")

	return comment, nil
}

// UpdateComment правит комментарий. Разрешено только автору и только
// в рамках того же события.
func (s *commentService) UpdateComment(ctx context.Context, userID, eventID, commentID int64, req *CommentRequest) (*entity.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.EventID != eventID {
		return nil, entity.ErrCommentEventMismatch
	}
	if comment.Author.ID != userID {
		return nil, entity.ErrNotCommentAuthor
	}

	comment.Text = req.Text
	edited := entity.NewEventTime(time.Now())
	comment.Edited = &edited

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment удаляет комментарий от имени автора
func (s *commentService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.Author.ID != userID {
		return entity.ErrNotCommentAuthor
	}
	return s.commentRepo.Delete(ctx, commentID)
}

// GetUserComments возвращает комментарии автора постранично
func (s *commentService) GetUserComments(ctx context.Context, userID int64, from, size int) ([]*entity.Comment, error) {
	if exists, err := s.userRepo.ExistsByID(ctx, userID); err != nil {
		return nil, err
	} else if !exists {
		return nil, entity.ErrUserNotFound
	}
	return s.commentRepo.GetByAuthor(ctx, userID, size, pageOffset(from, size))
}

// GetComment возвращает комментарий по идентификатору
func (s *commentService) GetComment(ctx context.Context, id int64) (*entity.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// GetEventComments возвращает комментарии к событию постранично
func (s *commentService) GetEventComments(ctx context.Context, eventID int64, from, size int) ([]*entity.Comment, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByEvent(ctx, eventID, size, pageOffset(from, size))
}

// DeleteCommentAdmin удаляет комментарий без проверки авторства
func (s *commentService) DeleteCommentAdmin(ctx context.Context, id int64) error {
	return s.commentRepo.Delete(ctx, id)
}
