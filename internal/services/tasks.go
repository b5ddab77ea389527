package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"todo-tracker/backend/internal/models"
)

// PriorityAll disables the priority filter.
const PriorityAll = "ALL"

type TaskFilter struct {
	Search   string
	Priority string
}

type TaskInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// TaskUpdate holds the fields a PATCH may change; nil means untouched.
// An empty DueDate clears the due date.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	IsCompleted *bool   `json:"isCompleted"`
}

// TaskService reads and writes tasks on behalf of a single owner. Update
// and Delete of a task the caller does not own match nothing and succeed.
type TaskService interface {
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]models.Task, error)
	Get(ctx context.Context, userID uuid.UUID, taskID string) (*models.Task, error)
	Create(ctx context.Context, userID uuid.UUID, in TaskInput) (*models.Task, error)
	Update(ctx context.Context, userID uuid.UUID, taskID string, upd TaskUpdate) error
	Delete(ctx context.Context, userID uuid.UUID, taskID string) error
}

type TaskServiceImpl struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskServiceImpl {
	return &TaskServiceImpl{db: db}
}

func (s *TaskServiceImpl) owned(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)
}

func (s *TaskServiceImpl) List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	query := s.owned(ctx, userID)

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where(titleMatch(s.db.Dialector.Name()), "%"+escapeLike(strings.ToLower(search))+"%")
	}

	if p := strings.TrimSpace(filter.Priority); p != "" && !strings.EqualFold(p, PriorityAll) {
		priority, ok := models.ParsePriority(p)
		if !ok {
			return nil, validationError("priority", "unknown priority "+p)
		}
		query = query.Where("priority = ?", priority)
	}

	tasks := []models.Task{}
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, storeError("list tasks", err, "user_id", userID.String())
	}
	return tasks, nil
}

func (s *TaskServiceImpl) Get(ctx context.Context, userID uuid.UUID, taskID string) (*models.Task, error) {
	id, err := uuid.FromString(taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	var task models.Task
	err = s.owned(ctx, userID).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, storeError("get task", err, "user_id", userID.String(), "task_id", taskID)
	}
	return &task, nil
}

func (s *TaskServiceImpl) Create(ctx context.Context, userID uuid.UUID, in TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, missingField("title")
	}

	task := models.Task{
		UserID:      userID,
		Title:       title,
		Description: optionalText(in.Description),
		Category:    models.DefaultCategory,
		Priority:    models.PriorityMedium,
	}

	if category := strings.TrimSpace(in.Category); category != "" {
		task.Category = category
	}

	if in.Priority != "" {
		priority, ok := models.ParsePriority(in.Priority)
		if !ok {
			return nil, validationError("priority", "unknown priority "+in.Priority)
		}
		task.Priority = priority
	}

	if in.DueDate != nil {
		due, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, storeError("create task", err, "user_id", userID.String())
	}
	return &task, nil
}

func (s *TaskServiceImpl) Update(ctx context.Context, userID uuid.UUID, taskID string, upd TaskUpdate) error {
	updates, err := upd.columns()
	if err != nil {
		return err
	}

	id, err := uuid.FromString(taskID)
	if err != nil || len(updates) == 0 {
		return nil
	}

	if err := s.owned(ctx, userID).Where("id = ?", id).Updates(updates).Error; err != nil {
		return storeError("update task", err, "user_id", userID.String(), "task_id", taskID)
	}
	return nil
}

func (s *TaskServiceImpl) Delete(ctx context.Context, userID uuid.UUID, taskID string) error {
	id, err := uuid.FromString(taskID)
	if err != nil {
		return nil
	}

	err = s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{}).Error
	if err != nil {
		return storeError("delete task", err, "user_id", userID.String(), "task_id", taskID)
	}
	return nil
}

// columns validates the supplied fields and maps them to column updates.
func (u TaskUpdate) columns() (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, validationError("title", "must not be empty")
		}
		updates["title"] = title
	}
	if u.Description != nil {
		updates["description"] = optionalText(u.Description)
	}
	if u.Category != nil {
		category := strings.TrimSpace(*u.Category)
		if category == "" {
			category = models.DefaultCategory
		}
		updates["category"] = category
	}
	if u.Priority != nil {
		priority, ok := models.ParsePriority(*u.Priority)
		if !ok {
			return nil, validationError("priority", "unknown priority "+*u.Priority)
		}
		updates["priority"] = priority
	}
	if u.DueDate != nil {
		due, err := parseDueDate(*u.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = due
	}
	if u.IsCompleted != nil {
		updates["is_completed"] = *u.IsCompleted
	}

	return updates, nil
}

// parseDueDate accepts a calendar date (UTC midnight) or an RFC 3339
// timestamp. Blank input means no due date.
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, validationError("dueDate", "expected YYYY-MM-DD or RFC 3339")
	}
	t = t.UTC()
	return &t, nil
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// titleMatch is the case-insensitive title filter for a dialect. Postgres
// folds the full Unicode range with ILIKE; SQLite's LOWER folds ASCII only.
func titleMatch(dialect string) string {
	if dialect == "postgres" {
		return `title ILIKE ? ESCAPE '\'`
	}
	return `LOWER(title) LIKE ? ESCAPE '\'`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
