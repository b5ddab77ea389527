package models_test

import (
	"encoding/json"
	"testing"

	"todo-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in    string
		want  models.Priority
		valid bool
	}{
		{"LOW", models.PriorityLow, true},
		{"medium", models.PriorityMedium, true},
		{" High ", models.PriorityHigh, true},
		{"URGENT", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := models.ParsePriority(tt.in)
		assert.Equal(t, tt.valid, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestUser_PasswordNeverSerialized(t *testing.T) {
	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    "ada@example.com",
		Password: "$2a$10$hash",
		Name:     "Ada",
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.NotContains(t, out, "password")
	assert.NotContains(t, out, "tasks")
	assert.Equal(t, "ada@example.com", out["email"])
}

func TestTask_JSONFieldNames(t *testing.T) {
	task := models.Task{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   uuid.Must(uuid.NewV4()),
		Title:    "Buy milk",
		Category: models.DefaultCategory,
		Priority: models.PriorityHigh,
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	for _, key := range []string{"authorId", "isCompleted", "dueDate", "createdAt", "updatedAt"} {
		assert.Contains(t, out, key)
	}
	assert.Equal(t, task.UserID.String(), out["authorId"])
	assert.Equal(t, false, out["isCompleted"])
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", models.NormalizeEmail("  Ada@Example.COM "))
}
