package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afisha-dev/afisha/internal/entity"
)

// commentTestEnv дополняет общее окружение репозиторием комментариев.
type commentTestEnv struct {
	*testEnv
	comments *fakeCommentRepo
}

func newCommentTestEnv() *commentTestEnv {
	return &commentTestEnv{
		testEnv:  newTestEnv(),
		comments: newFakeCommentRepo(),
	}
}

func (e *commentTestEnv) service() CommentService {
	return NewCommentService(e.comments, e.events, e.users)
}

// TestAddComment тестирует добавление комментария
func TestAddComment(t *testing.T) {
	tests := []struct {
		name    string
		state   entity.EventState
		wantErr error
	}{
		{
			name:  "комментарий к опубликованному событию",
			state: entity.EventStatePublished,
		},
		{
			name:    "событие в ожидании комментировать нельзя",
			state:   entity.EventStatePending,
			wantErr: entity.ErrCommentNotPublished,
		},
		{
			name:    "отмененное событие комментировать нельзя",
			state:   entity.EventStateCanceled,
			wantErr: entity.ErrCommentNotPublished,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCommentTestEnv()
			initiator := env.seedUser(t, "Организатор", "owner@example.com")
			author := env.seedUser(t, "Автор", "author@example.com")
			event := env.seedEvent(t, initiator, tt.state, 10, true)

			comment, err := env.service().AddComment(context.Background(), author.ID, event.ID, &CommentRequest{
				Text: "Отличное событие",
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, comment.ID)
			assert.Equal(t, "Отличное событие", comment.Text)
			assert.Equal(t, author.ID, comment.Author.ID)
			assert.Equal(t, event.ID, comment.EventID)
			assert.Nil(t, comment.Edited)
		})
	}
}

// TestUpdateComment тестирует правку комментария
func TestUpdateComment(t *testing.T) {
	env := newCommentTestEnv()
	initiator := env.seedUser(t, "Организатор", "owner@example.com")
	author := env.seedUser(t, "Автор", "author@example.com")
	stranger := env.seedUser(t, "Посторонний", "stranger@example.com")
	event := env.seedEvent(t, initiator, entity.EventStatePublished, 10, true)
	other := env.seedEvent(t, initiator, entity.EventStatePublished, 10, true)
	svc := env.service()

	comment, err := svc.AddComment(context.Background(), author.ID, event.ID, &CommentRequest{Text: "Первая версия"})
	require.NoError(t, err)

	t.Run("автор правит свой комментарий", func(t *testing.T) {
		updated, err := svc.UpdateComment(context.Background(), author.ID, event.ID, comment.ID, &CommentRequest{
			Text: "Исправленная версия",
		})

		require.NoError(t, err)
		assert.Equal(t, "Исправленная версия", updated.Text)
		// Правка оставляет отметку времени
		require.NotNil(t, updated.Edited)
	})

	t.Run("чужой комментарий править нельзя", func(t *testing.T) {
		_, err := svc.UpdateComment(context.Background(), stranger.ID, event.ID, comment.ID, &CommentRequest{
			Text: "Попытка вмешательства",
		})

		require.ErrorIs(t, err, entity.ErrNotCommentAuthor)
	})

	t.Run("комментарий привязан к своему событию", func(t *testing.T) {
		_, err := svc.UpdateComment(context.Background(), author.ID, other.ID, comment.ID, &CommentRequest{
			Text: "Не то событие",
		})

		require.ErrorIs(t, err, entity.ErrCommentEventMismatch)
	})
}

// TestDeleteComment тестирует удаление комментария
func TestDeleteComment(t *testing.T) {
	env := newCommentTestEnv()
	initiator := env.seedUser(t, "Организатор", "owner@example.com")
	author := env.seedUser(t, "Автор", "author@example.com")
	stranger := env.seedUser(t, "Посторонний", "stranger@example.com")
	event := env.seedEvent(t, initiator, entity.EventStatePublished, 10, true)
	svc := env.service()

	comment, err := svc.AddComment(context.Background(), author.ID, event.ID, &CommentRequest{Text: "На удаление"})
	require.NoError(t, err)

	// Посторонний удалить не может
	require.ErrorIs(t, svc.DeleteComment(context.Background(), stranger.ID, comment.ID), entity.ErrNotCommentAuthor)

	// Автор удаляет успешно
	require.NoError(t, svc.DeleteComment(context.Background(), author.ID, comment.ID))
	_, err = svc.GetComment(context.Background(), comment.ID)
	require.ErrorIs(t, err, entity.ErrCommentNotFound)
}

// TestDeleteCommentAdmin тестирует административное удаление
func TestDeleteCommentAdmin(t *testing.T) {
	env := newCommentTestEnv()
	initiator := env.seedUser(t, "Организатор", "owner@example.com")
	author := env.seedUser(t, "Автор", "author@example.com")
	event := env.seedEvent(t, initiator, entity.EventStatePublished, 10, true)
	svc := env.service()

	comment, err := svc.AddComment(context.Background(), author.ID, event.ID, &CommentRequest{Text: "Нарушение правил"})
	require.NoError(t, err)

	// Администратор удаляет без проверки авторства
	require.NoError(t, svc.DeleteCommentAdmin(context.Background(), comment.ID))
	_, err = svc.GetComment(context.Background(), comment.ID)
	require.ErrorIs(t, err, entity.ErrCommentNotFound)
}

// TestGetEventComments тестирует список комментариев к событию
func TestGetEventComments(t *testing.T) {
	env := newCommentTestEnv()
	initiator := env.seedUser(t, "Организатор", "owner@example.com")
	author := env.seedUser(t, "Автор", "author@example.com")
	event := env.seedEvent(t, initiator, entity.EventStatePublished, 10, true)
	svc := env.service()

	for _, text := range []string{"Первый", "Второй", "Третий"} {
		_, err := svc.AddComment(context.Background(), author.ID, event.ID, &CommentRequest{Text: text})
		require.NoError(t, err)
	}

	comments, err := svc.GetEventComments(context.Background(), event.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Первый", comments[0].Text)

	// Несуществующее событие дает ошибку поиска
	_, err = svc.GetEventComments(context.Background(), 42, 0, 10)
	require.ErrorIs(t, err, entity.ErrEventNotFound)
}
