package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"todo-tracker/backend/internal/handlers"
	"todo-tracker/backend/internal/models"
	"todo-tracker/backend/internal/services"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, userID uuid.UUID, filter services.TaskFilter) ([]models.Task, error) {
	args := m.Called(ctx, userID, filter)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, userID uuid.UUID, taskID string) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, userID uuid.UUID, in services.TaskInput) (*models.Task, error) {
	args := m.Called(ctx, userID, in)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, userID uuid.UUID, taskID string, upd services.TaskUpdate) error {
	return m.Called(ctx, userID, taskID, upd).Error(0)
}

func (m *MockTaskService) Delete(ctx context.Context, userID uuid.UUID, taskID string) error {
	return m.Called(ctx, userID, taskID).Error(0)
}

type taskFixture struct {
	router  *gin.Engine
	service *MockTaskService
	userID  uuid.UUID
	cookie  *http.Cookie
}

func setupTaskHandler(t *testing.T) *taskFixture {
	gate, tokens := newTestGate()
	service := &MockTaskService{}
	handler := handlers.NewTaskHandler(service, gate, nil)

	router := newTestRouter()
	router.GET("/todos", handler.GetTasks)
	router.POST("/todos", handler.CreateTask)
	router.GET("/todos/:id", handler.GetTaskByID)
	router.PATCH("/todos/:id", handler.UpdateTask)
	router.DELETE("/todos/:id", handler.DeleteTask)

	userID := uuid.Must(uuid.NewV4())
	t.Cleanup(func() { service.AssertExpectations(t) })
	return &taskFixture{
		router:  router,
		service: service,
		userID:  userID,
		cookie:  sessionCookie(t, tokens, userID),
	}
}

func TestTaskHandler_RequiresSession(t *testing.T) {
	f := setupTaskHandler(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/todos"},
		{http.MethodPost, "/todos"},
		{http.MethodGet, "/todos/abc"},
		{http.MethodPatch, "/todos/abc"},
		{http.MethodDelete, "/todos/abc"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			w := doRequest(f.router, r.method, r.path, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", decodeBody(t, w)["message"])

			w = doRequest(f.router, r.method, r.path, nil, &http.Cookie{Name: "token", Value: f.cookie.Value + "x"})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
	f.service.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_GetTasks(t *testing.T) {
	f := setupTaskHandler(t)

	tasks := []models.Task{{ID: uuid.Must(uuid.NewV4()), UserID: f.userID, Title: "Buy milk", Priority: models.PriorityHigh}}
	f.service.On("List", mock.Anything, f.userID, services.TaskFilter{Search: "milk", Priority: "HIGH"}).Return(tasks, nil)

	w := doRequest(f.router, http.MethodGet, "/todos?search=milk&priority=HIGH", nil, f.cookie)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Fetched todo list.", body["message"])
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	task := data[0].(map[string]interface{})
	assert.Equal(t, "Buy milk", task["title"])
	assert.Equal(t, f.userID.String(), task["authorId"])
	assert.Equal(t, false, task["isCompleted"])
}

func TestTaskHandler_GetTasks_EmptyListIsArray(t *testing.T) {
	f := setupTaskHandler(t)
	f.service.On("List", mock.Anything, f.userID, services.TaskFilter{}).Return([]models.Task{}, nil)

	w := doRequest(f.router, http.MethodGet, "/todos", nil, f.cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestTaskHandler_GetTasks_BadPriority(t *testing.T) {
	f := setupTaskHandler(t)
	f.service.On("List", mock.Anything, f.userID, services.TaskFilter{Priority: "URGENT"}).Return(nil, invalidField("priority"))

	w := doRequest(f.router, http.MethodGet, "/todos?priority=URGENT", nil, f.cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Priority must be LOW, MEDIUM or HIGH.", decodeBody(t, w)["message"])
}

func TestTaskHandler_GetTaskByID(t *testing.T) {
	f := setupTaskHandler(t)

	task := &models.Task{ID: uuid.Must(uuid.NewV4()), UserID: f.userID, Title: "Read"}
	f.service.On("Get", mock.Anything, f.userID, task.ID.String()).Return(task, nil)
	f.service.On("Get", mock.Anything, f.userID, "missing").Return(nil, services.ErrTaskNotFound)

	w := doRequest(f.router, http.MethodGet, "/todos/"+task.ID.String(), nil, f.cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Read", decodeBody(t, w)["data"].(map[string]interface{})["title"])

	w = doRequest(f.router, http.MethodGet, "/todos/missing", nil, f.cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found.", decodeBody(t, w)["message"])
}

func TestTaskHandler_CreateTask(t *testing.T) {
	f := setupTaskHandler(t)

	input := services.TaskInput{Title: "Buy milk", Category: "General", Priority: "HIGH", DueDate: strPtr("2030-01-02")}
	created := &models.Task{ID: uuid.Must(uuid.NewV4()), UserID: f.userID, Title: "Buy milk", Category: "General", Priority: models.PriorityHigh}
	f.service.On("Create", mock.Anything, f.userID, input).Return(created, nil)

	w := doRequest(f.router, http.MethodPost, "/todos", map[string]interface{}{
		"title":    "Buy milk",
		"category": "General",
		"priority": "HIGH",
		"dueDate":  "2030-01-02",
	}, f.cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "New task added.", body["message"])
	assert.Equal(t, created.ID.String(), body["data"].(map[string]interface{})["id"])
}

func TestTaskHandler_CreateTask_Rejections(t *testing.T) {
	f := setupTaskHandler(t)
	f.service.On("Create", mock.Anything, f.userID, services.TaskInput{}).Return(nil, invalidField("title"))
	f.service.On("Create", mock.Anything, f.userID, services.TaskInput{Title: "x", DueDate: strPtr("soon")}).Return(nil, invalidField("dueDate"))

	w := doRequest(f.router, http.MethodPost, "/todos", map[string]interface{}{}, f.cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title is required.", decodeBody(t, w)["message"])

	w = doRequest(f.router, http.MethodPost, "/todos", map[string]interface{}{"title": "x", "dueDate": "soon"}, f.cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Due date must be YYYY-MM-DD or an RFC 3339 timestamp.", decodeBody(t, w)["message"])

	w = doRequest(f.router, http.MethodPost, "/todos", "{not json", f.cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body.", decodeBody(t, w)["message"])
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	f := setupTaskHandler(t)

	done := true
	upd := services.TaskUpdate{IsCompleted: &done, Title: strPtr("Renamed")}
	f.service.On("Update", mock.Anything, f.userID, "some-id", upd).Return(nil)

	w := doRequest(f.router, http.MethodPatch, "/todos/some-id", map[string]interface{}{
		"isCompleted": true,
		"title":       "Renamed",
	}, f.cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated", decodeBody(t, w)["message"])
}

func TestTaskHandler_UpdateTask_StoreFailure(t *testing.T) {
	f := setupTaskHandler(t)
	f.service.On("Update", mock.Anything, f.userID, "some-id", services.TaskUpdate{}).Return(errors.New("connection reset"))

	w := doRequest(f.router, http.MethodPatch, "/todos/some-id", map[string]interface{}{}, f.cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	f := setupTaskHandler(t)
	f.service.On("Delete", mock.Anything, f.userID, "some-id").Return(nil)

	w := doRequest(f.router, http.MethodDelete, "/todos/some-id", nil, f.cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted", decodeBody(t, w)["message"])
}
