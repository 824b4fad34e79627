package service

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"fmt"
	"strings"
)

// ThreadService — темы форума сообщества.
type ThreadService struct {
	repo  repo.ThreadPostRepository
	users *UserService

	replyLocks repo.KeyedMutex
}

func NewThreadService(r repo.ThreadPostRepository, users *UserService) *ThreadService {
	return &ThreadService{repo: r, users: users}
}

// ThreadInput — поля новой темы.
type ThreadInput struct {
	Category       string
	Subcategory    string
	Title          string
	Content        string
	IsGroupForming bool
}

// List возвращает все темы по времени публикации.
func (s *ThreadService) List(ctx context.Context) ([]model.ThreadPost, error) {
	return s.repo.ListThreadPosts(ctx)
}

// Get возвращает тему или repo.ErrNotFound.
func (s *ThreadService) Get(ctx context.Context, id string) (*model.ThreadPost, error) {
	post, err := s.repo.GetThreadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: thread %s", repo.ErrNotFound, id)
	}
	return post, nil
}

// Create публикует тему со снимком имени и аватара автора.
func (s *ThreadService) Create(ctx context.Context, userID string, in ThreadInput) (*model.ThreadPost, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Category == "" || in.Title == "" || in.Content == "" {
		return nil, validationf("category, title and content are required")
	}
	author, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateThreadPost(ctx, &model.ThreadPost{
		UserID:         userID,
		Category:       in.Category,
		Subcategory:    strings.TrimSpace(in.Subcategory),
		Title:          in.Title,
		Content:        in.Content,
		IsGroupForming: in.IsGroupForming,
		Author:         model.ThreadAuthor{Name: author.Username, Avatar: author.Avatar},
	})
}

// Reply увеличивает счётчик ответов темы на единицу.
func (s *ThreadService) Reply(ctx context.Context, id string) (*model.ThreadPost, error) {
	unlock := s.replyLocks.Lock(id)
	defer unlock()

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateThreadReplyCount(ctx, id, post.ReplyCount+1)
}
