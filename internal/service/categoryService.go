package service

import (
	"context"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/sirupsen/logrus"
)

// CategoryRequest представляет данные для создания и правки категории
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	eventRepo    repository.EventRepository
}

// NewCategoryService создает новый экземпляр CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, eventRepo repository.EventRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		eventRepo:    eventRepo,
	}
}

// CreateCategory создает категорию с уникальным именем
func (s *categoryService) CreateCategory(ctx context.Context, req *CategoryRequest) (*entity.Category, error) {
	category := &entity.Category{Name: req.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	logrus.WithField("category_id", category.ID).Info("категория создана")
	return category, nil
}

// UpdateCategory переименовывает категорию
func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req *CategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory удаляет категорию, на которую не ссылаются события
func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	inUse, err := s.eventRepo.ExistsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return entity.ErrCategoryInUse
	}
	return s.categoryRepo.Delete(ctx, id)
}

// GetCategory возвращает категорию по идентификатору
func (s *categoryService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// GetCategories возвращает страницу категорий
func (s *categoryService) GetCategories(ctx context.Context, from, size int) ([]*entity.Category, error) {
	return s.categoryRepo.GetAll(ctx, size, pageOffset(from, size))
}
