package service

import (
	"context"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/sirupsen/logrus"
)

// NewUserRequest представляет данные для регистрации пользователя
type NewUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=250"`
	Email string `json:"email" binding:"required,email,max=254"`
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый экземпляр UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// CreateUser регистрирует пользователя с уникальной почтой
func (s *userService) CreateUser(ctx context.Context, req *NewUserRequest) (*entity.User, error) {
	user := &entity.User{
		Name:  req.Name,
		Email: req.Email,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("пользователь зарегистрирован")
	return user, nil
}

// GetUsers возвращает пользователей: либо по списку идентификаторов,
// либо постранично.
func (s *userService) GetUsers(ctx context.Context, ids []int64, from, size int) ([]*entity.User, error) {
	return s.userRepo.GetAll(ctx, ids, size, pageOffset(from, size))
}

// DeleteUser удаляет пользователя
func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}
