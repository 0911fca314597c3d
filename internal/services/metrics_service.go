package services

import (
	"context"
	"time"

	apperrors "work-tracker.com/work-tracker/internal/errors"
	"work-tracker.com/work-tracker/internal/metrics"
	repository "work-tracker.com/work-tracker/internal/repositories"
)

// MetricsService answers workload queries from one batch read of the store.
type MetricsService struct {
	store      Store
	aggregator *metrics.Aggregator
	now        func() time.Time
	loc        *time.Location
}

func NewMetricsService(store Store, now func() time.Time, loc *time.Location) *MetricsService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &MetricsService{
		store:      store,
		aggregator: metrics.NewAggregator(now, loc),
		now:        now,
		loc:        loc,
	}
}

func (s *MetricsService) GetUserMetrics(ctx context.Context, userID string) (metrics.UserMetrics, error) {
	count, err := s.store.CountUsers(ctx, []string{userID})
	if err != nil {
		return metrics.UserMetrics{}, err
	}
	if count == 0 {
		return metrics.UserMetrics{}, apperrors.ErrUserNotFound
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return metrics.UserMetrics{}, err
	}
	return s.aggregator.User(snap, userID), nil
}

// GetTeamMetrics returns metrics for every known user, ordered by user id.
func (s *MetricsService) GetTeamMetrics(ctx context.Context) ([]metrics.UserMetrics, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return s.aggregator.Team(snap, ids), nil
}

func (s *MetricsService) snapshot(ctx context.Context) (metrics.Snapshot, error) {
	tasks, err := s.store.ListTasks(ctx, repository.TaskFilter{})
	if err != nil {
		return metrics.Snapshot{}, err
	}

	subtasks, err := s.store.ListAllSubtasks(ctx)
	if err != nil {
		return metrics.Snapshot{}, err
	}

	assignments, err := s.store.ListWorkAssignments(ctx, s.startOfTomorrow())
	if err != nil {
		return metrics.Snapshot{}, err
	}

	return metrics.Snapshot{Tasks: tasks, Subtasks: subtasks, Assignments: assignments}, nil
}

func (s *MetricsService) startOfTomorrow() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, s.loc)
}
