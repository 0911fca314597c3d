package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"work-tracker.com/work-tracker/internal/constants"
	apperrors "work-tracker.com/work-tracker/internal/errors"
	model "work-tracker.com/work-tracker/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err, "failed to connect database")
	require.NoError(t, db.AutoMigrate(model.All()...), "failed to migrate database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func order(n int) *int { return &n }

func seedSequentialTask(t *testing.T, repo *WorkItemRepository) (*model.Task, []model.Subtask) {
	t.Helper()
	now := time.Now().UTC()

	task := &model.Task{
		ProjectID:    "p-1",
		Title:        "Release",
		IsSequential: true,
		Status:       constants.StatusPending,
		StartDate:    now,
		Deadline:     now.Add(48 * time.Hour),
	}
	subtasks := []model.Subtask{
		{Title: "design", SequenceOrder: order(1), AssignedTo: "u1", Status: constants.StatusPending, StartDate: now, Deadline: now},
		{Title: "build", SequenceOrder: order(2), AssignedTo: "u2", Status: constants.StatusPending, StartDate: now, Deadline: now},
	}

	require.NoError(t, repo.CreateTask(context.Background(), task, subtasks))
	return task, subtasks
}

func TestWorkItemRepository_CreateAndList(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()

	task, subtasks := seedSequentialTask(t, repo)

	require.NotEmpty(t, task.ID)
	for _, st := range subtasks {
		assert.Equal(t, task.ID, st.TaskID)
		assert.EqualValues(t, 1, st.Version)
	}

	stored, err := repo.ListSubtasks(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "design", stored[0].Title)
	assert.Equal(t, 2, stored[1].Level())

	found, err := repo.FindTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, found.IsSequential)
	assert.Equal(t, []string{}, found.AssignedUsers)

	_, err = repo.FindTask(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestWorkItemRepository_CreateSubtaskMissingParent(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))

	err := repo.CreateSubtask(context.Background(), &model.Subtask{
		TaskID:     "nope",
		Title:      "orphan",
		AssignedTo: "u1",
		Status:     constants.StatusPending,
	})

	assert.ErrorIs(t, err, apperrors.ErrMissingParent)
}

func TestWorkItemRepository_StaleWriteIsRejected(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()
	_, subtasks := seedSequentialTask(t, repo)

	first := subtasks[0]
	second := subtasks[0]

	require.NoError(t, repo.WriteSubtaskStatus(ctx, &first, constants.StatusInProgress, nil))
	assert.EqualValues(t, 2, first.Version)

	err := repo.WriteSubtaskStatus(ctx, &second, constants.StatusInProgress, nil)
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
	assert.Equal(t, constants.StatusPending, second.Status)

	stored, err := repo.FindSubtask(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, stored.Status)
	assert.EqualValues(t, 2, stored.Version)
}

func TestWorkItemRepository_FeedbackIsStored(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()
	_, subtasks := seedSequentialTask(t, repo)

	feedback := `{"reason":"missing tests"}`
	st := subtasks[0]
	require.NoError(t, repo.WriteSubtaskStatus(ctx, &st, constants.StatusReturned, &feedback))

	stored, err := repo.FindSubtask(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, feedback, stored.Feedback)
}

func TestWorkItemRepository_SwapSubtaskOrder(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()
	task, subtasks := seedSequentialTask(t, repo)

	a, b := subtasks[0], subtasks[1]
	require.NoError(t, repo.SwapSubtaskOrder(ctx, &a, &b))

	assert.Equal(t, 2, a.Level())
	assert.Equal(t, 1, b.Level())
	assert.EqualValues(t, 3, a.Version)
	assert.EqualValues(t, 2, b.Version)

	stored, err := repo.ListSubtasks(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "build", stored[0].Title)
	assert.Equal(t, 1, stored[0].Level())
	assert.Equal(t, "design", stored[1].Title)
}

func TestWorkItemRepository_SwapRollsBackOnStaleVersion(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()
	task, subtasks := seedSequentialTask(t, repo)

	a, b := subtasks[0], subtasks[1]
	b.Version = 99

	err := repo.SwapSubtaskOrder(ctx, &a, &b)
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
	assert.Equal(t, 1, a.Level())

	stored, err := repo.ListSubtasks(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored[0].Level())
	assert.Equal(t, "design", stored[0].Title)
	assert.Equal(t, 2, stored[1].Level())
}

func TestWorkItemRepository_SwapNeverExposesDuplicateOrders(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()
	task, subtasks := seedSequentialTask(t, repo)

	done := make(chan struct{})
	violations := make(chan []int, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			stored, err := repo.ListSubtasks(ctx, task.ID)
			if err != nil || len(stored) != 2 {
				continue
			}
			if stored[0].Level() == stored[1].Level() || stored[0].Level() < 1 || stored[1].Level() < 1 {
				select {
				case violations <- []int{stored[0].Level(), stored[1].Level()}:
				default:
				}
			}
		}
	}()

	a, b := subtasks[0], subtasks[1]
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.SwapSubtaskOrder(ctx, &a, &b))
	}
	close(done)
	wg.Wait()

	select {
	case v := <-violations:
		t.Fatalf("reader observed intermediate orders %v", v)
	default:
	}
}

func TestWorkItemRepository_DeleteTaskCascades(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()
	task, subtasks := seedSequentialTask(t, repo)

	subtaskID := subtasks[0].ID
	require.NoError(t, repo.CreateWorkAssignment(ctx, &model.WorkAssignment{
		UserID:    "u1",
		TaskID:    task.ID,
		SubtaskID: &subtaskID,
		Date:      time.Now().UTC(),
	}))

	require.NoError(t, repo.DeleteTask(ctx, task.ID))

	remaining, err := repo.ListSubtasks(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assignments, err := repo.ListWorkAssignments(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, assignments)

	assert.ErrorIs(t, repo.DeleteTask(ctx, task.ID), apperrors.ErrTaskNotFound)
}

func TestWorkItemRepository_WorkAssignmentValidation(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()
	task, subtasks := seedSequentialTask(t, repo)
	other, _ := seedSequentialTask(t, repo)

	foreign := subtasks[0].ID
	err := repo.CreateWorkAssignment(ctx, &model.WorkAssignment{UserID: "u1", TaskID: other.ID, SubtaskID: &foreign, Date: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrMissingParent)

	err = repo.CreateWorkAssignment(ctx, &model.WorkAssignment{UserID: "u1", TaskID: "gone", Date: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	require.NoError(t, repo.CreateWorkAssignment(ctx, &model.WorkAssignment{UserID: "u1", TaskID: task.ID, Date: time.Now()}))
}

func TestWorkItemRepository_WorkAssignmentDatesAreComparedAsInstants(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()
	task, _ := seedSequentialTask(t, repo)

	karachi := time.FixedZone("PKT", 5*60*60)
	lateEvening := time.Date(2026, 3, 15, 22, 0, 0, 0, time.UTC)
	offset := &model.WorkAssignment{UserID: "u1", TaskID: task.ID, Date: lateEvening.In(karachi)}
	plain := &model.WorkAssignment{UserID: "u1", TaskID: task.ID, Date: lateEvening.Add(-time.Hour)}
	require.NoError(t, repo.CreateWorkAssignment(ctx, offset))
	require.NoError(t, repo.CreateWorkAssignment(ctx, plain))
	assert.Equal(t, time.UTC, offset.Date.Location())

	cutoff := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	assignments, err := repo.ListWorkAssignments(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.True(t, assignments[1].Date.Equal(lateEvening))

	assignments, err = repo.ListWorkAssignments(ctx, cutoff.In(karachi))
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	assignments, err = repo.ListWorkAssignments(ctx, lateEvening)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestWorkItemRepository_Directory(t *testing.T) {
	repo := NewWorkItemRepository(setupTestDB(t))
	ctx := context.Background()

	project, err := repo.CreateProject(ctx, "Apollo")
	require.NoError(t, err)

	found, err := repo.FindProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", found.Name)

	_, err = repo.FindProject(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)

	ann, err := repo.CreateUser(ctx, "ann", 1001)
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, "bob", 0)
	require.NoError(t, err)

	count, err := repo.CountUsers(ctx, []string{ann.ID, "ghost"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	users, err := repo.FindUsers(ctx, []string{ann.ID})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.EqualValues(t, 1001, users[0].TelegramChatID)

	all, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
