package service

import (
	"context"
	"errors"
	"time"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskService interface {
	Create(ctx context.Context, principal *model.User, in CreateTaskInput) (*model.Task, error)
	List(ctx context.Context, principal *model.User, projectID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, principal *model.User, id uuid.UUID, in UpdateTaskInput) (*model.Task, error)
	// ToggleComplete flips a task between completed and the status it held
	// before completion. The flip is compare-and-swap on the current status,
	// so two racing toggles resolve to exactly one transition.
	ToggleComplete(ctx context.Context, principal *model.User, id uuid.UUID) (*model.Task, error)
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error
}

type taskService struct {
	tasks         repo.TaskRepo
	projects      repo.ProjectRepo
	notifications NotificationService
	bus           realtime.Bus
	log           *zap.Logger
}

func NewTaskService(tasks repo.TaskRepo, projects repo.ProjectRepo, notifications NotificationService, bus realtime.Bus, log *zap.Logger) TaskService {
	return &taskService{tasks: tasks, projects: projects, notifications: notifications, bus: bus, log: log}
}

type CreateTaskInput struct {
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
}

type UpdateTaskInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
}

func validTaskStatus(s string) bool {
	switch s {
	case model.TaskStatusTodo, model.TaskStatusInProgress, model.TaskStatusCompleted:
		return true
	}
	return false
}

func (s *taskService) Create(ctx context.Context, principal *model.User, in CreateTaskInput) (*model.Task, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, in.ProjectID); err != nil {
		return nil, err
	}

	t := &model.Task{
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.TaskStatusTodo,
		PrevStatus:  model.TaskStatusTodo,
		Deadline:    in.Deadline,
		AssignedTo:  in.AssignedTo,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	if in.AssignedTo != nil && *in.AssignedTo != principal.ID {
		s.notifications.Notify(ctx, &model.Notification{
			RecipientID: *in.AssignedTo,
			Type:        model.NotificationTypeTaskAssigned,
			Title:       "New task assigned",
			Message:     t.Title,
			EntityType:  "task",
			EntityID:    t.ID,
		})
	}

	s.publish(ctx, t.ProjectID)
	return t, nil
}

func (s *taskService) List(ctx context.Context, principal *model.User, projectID uuid.UUID) ([]model.Task, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, principal *model.User, id uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	t, err := s.load(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		if !validTaskStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *in.Status
	}
	if in.Deadline != nil {
		fields["deadline"] = *in.Deadline
	}
	if in.AssignedTo != nil {
		fields["assigned_to"] = *in.AssignedTo
	}
	if len(fields) == 0 {
		return t, nil
	}

	if err := s.tasks.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.AssignedTo != nil && *in.AssignedTo != principal.ID {
		s.notifications.Notify(ctx, &model.Notification{
			RecipientID: *in.AssignedTo,
			Type:        model.NotificationTypeTaskAssigned,
			Title:       "Task assigned to you",
			Message:     t.Title,
			EntityType:  "task",
			EntityID:    t.ID,
		})
	}

	s.publish(ctx, t.ProjectID)
	return s.tasks.Get(ctx, id)
}

func (s *taskService) ToggleComplete(ctx context.Context, principal *model.User, id uuid.UUID) (*model.Task, error) {
	t, err := s.load(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	var next, prev string
	if t.Status == model.TaskStatusCompleted {
		// Toggling a completed task restores whatever it was before.
		next = t.PrevStatus
		if !validTaskStatus(next) || next == model.TaskStatusCompleted {
			next = model.TaskStatusTodo
		}
		prev = t.PrevStatus
	} else {
		next = model.TaskStatusCompleted
		prev = t.Status
	}

	if err := s.tasks.UpdateStatusCAS(ctx, id, t.Status, next, prev); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusConflict
		}
		return nil, err
	}

	s.publish(ctx, t.ProjectID)
	return s.tasks.Get(ctx, id)
}

func (s *taskService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	t, err := s.load(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, t.ProjectID)
	return nil
}

// load fetches a task and authorizes the principal through its project.
func (s *taskService) load(ctx context.Context, principal *model.User, id uuid.UUID) (*model.Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := loadProjectFor(ctx, s.projects, principal, t.ProjectID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) publish(ctx context.Context, projectID uuid.UUID) {
	err := s.bus.Publish(ctx, realtime.Event{
		Entity:   realtime.EntityTasks,
		ScopeKey: projectID.String(),
	})
	if err != nil {
		s.log.Warn("failed to publish tasks change event", zap.Error(err))
	}
}
