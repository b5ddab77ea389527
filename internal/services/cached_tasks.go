package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"todo-tracker/backend/internal/models"
)

// TaskCache is the slice of the cache the task decorator needs.
type TaskCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// CachedTaskService serves task lists from the cache and drops a user's
// cached lists whenever that user's tasks change. Cache failures fall back
// to the wrapped service.
//
// List keys carry a per-user generation that every write bumps, so a list
// read before a write and stored after it lands under a key no reader uses.
type CachedTaskService struct {
	taskService TaskService
	cache       TaskCache
	ttl         time.Duration
	logger      *zap.Logger
}

func NewCachedTaskService(taskService TaskService, cache TaskCache, ttl time.Duration, logger *zap.Logger) *CachedTaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTaskService{
		taskService: taskService,
		cache:       cache,
		ttl:         ttl,
		logger:      logger,
	}
}

func generationKey(userID uuid.UUID) string {
	return "user_tasks_gen:" + userID.String()
}

func listKey(userID uuid.UUID, generation int64, filter TaskFilter) string {
	return fmt.Sprintf("user_tasks:%s:%d:%s:%s",
		userID.String(),
		generation,
		strings.ToLower(strings.TrimSpace(filter.Search)),
		strings.ToUpper(strings.TrimSpace(filter.Priority)),
	)
}

func userPattern(userID uuid.UUID) string {
	return fmt.Sprintf("user_tasks:%s:*", userID.String())
}

// generationTTL outlives every list stored under the generation, so an
// expired counter restarting at zero never meets a live list key.
func (s *CachedTaskService) generationTTL() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	return 2 * s.ttl
}

func (s *CachedTaskService) List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	generation, err := s.cache.Counter(ctx, generationKey(userID))
	if err != nil {
		s.logger.Debug("task cache bypassed", zap.String("user_id", userID.String()), zap.Error(err))
		return s.taskService.List(ctx, userID, filter)
	}
	key := listKey(userID, generation, filter)

	var cached []models.Task
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.taskService.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, tasks, s.ttl); err != nil {
		s.logger.Debug("task list not cached", zap.String("key", key), zap.Error(err))
	}
	return tasks, nil
}
func (s *CachedTaskService) Get(ctx context.Context, userID uuid.UUID, taskID string) (*models.Task, error) {
	return s.taskService.Get(ctx, userID, taskID)
}

func (s *CachedTaskService) Create(ctx context.Context, userID uuid.UUID, in TaskInput) (*models.Task, error) {
	task, err := s.taskService.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	s.ForgetUser(ctx, userID)
	return task, nil
}

func (s *CachedTaskService) Update(ctx context.Context, userID uuid.UUID, taskID string, upd TaskUpdate) error {
	if err := s.taskService.Update(ctx, userID, taskID, upd); err != nil {
		return err
	}
	s.ForgetUser(ctx, userID)
	return nil
}

func (s *CachedTaskService) Delete(ctx context.Context, userID uuid.UUID, taskID string) error {
	if err := s.taskService.Delete(ctx, userID, taskID); err != nil {
		return err
	}
	s.ForgetUser(ctx, userID)
	return nil
}

// ForgetUser retires every cached list of userID. It has the shape of an
// AccountDeletedHook.
func (s *CachedTaskService) ForgetUser(ctx context.Context, userID uuid.UUID) {
	if _, err := s.cache.Incr(ctx, generationKey(userID), s.generationTTL()); err != nil {
		s.logger.Warn("failed to bump task cache generation",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
	if err := s.cache.DeletePattern(ctx, userPattern(userID)); err != nil {
		s.logger.Warn("failed to invalidate task cache",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}
