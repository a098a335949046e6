package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("trims title and defaults status", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(2, "  write report  ", "quarterly numbers", "")
		require.NoError(t, err)
		assert.Equal(t, "write report", task.Title)
		assert.Equal(t, TaskStatusNew, task.Status)
		assert.Equal(t, int64(2), task.OwnerID)
	})

	t.Run("keeps explicit status", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(2, "write report", "", TaskStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, TaskStatusInProgress, task.Status)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(2, "   ", "", TaskStatusNew)
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})

	t.Run("rejects overlong description", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(2, "title", strings.Repeat("x", MaxDescriptionLength+1), TaskStatusNew)
		assert.ErrorIs(t, err, ErrDescriptionTooLong)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(0, "title", "", TaskStatusNew)
		assert.ErrorIs(t, err, ErrEmptyOwner)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(2, "title", "", TaskStatus("ARCHIVED"))
		assert.ErrorIs(t, err, ErrInvalidTaskStatus)
	})
}

func TestTaskApply(t *testing.T) {
	t.Parallel()

	task, err := NewTask(2, "original", "desc", TaskStatusNew)
	require.NoError(t, err)

	task.Apply("  updated  ", "new desc", TaskStatusCompleted)

	assert.Equal(t, "updated", task.Title)
	assert.Equal(t, "new desc", task.Description)
	assert.Equal(t, TaskStatusCompleted, task.Status)
	assert.Equal(t, int64(2), task.OwnerID, "Apply never changes ownership")
}

func TestTaskStatusValidate(t *testing.T) {
	t.Parallel()

	for _, status := range []TaskStatus{TaskStatusNew, TaskStatusInProgress, TaskStatusCompleted} {
		assert.NoError(t, status.Validate())
	}
	assert.ErrorIs(t, TaskStatus("DONE").Validate(), ErrInvalidTaskStatus)
	assert.ErrorIs(t, TaskStatus("").Validate(), ErrInvalidTaskStatus)
}
