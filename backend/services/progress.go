package services

import (
	"context"
	"errors"
	"strings"

	"learnpath/backend/models"
	"learnpath/backend/store"
	"learnpath/backend/utils"
)

type ProgressUpdate struct {
	CourseID  string `json:"courseId" validate:"required"`
	TopicID   string `json:"topicId" validate:"required"`
	Completed *bool  `json:"completed" validate:"required"`
}

// CourseProgress is a user's completion state for one course. Report is nil when the
// course has no stored roadmap.
type CourseProgress struct {
	CompletedTopics []string               `json:"completedTopics"`
	Progress        *models.ProgressReport `json:"progress,omitempty"`
}

type ProgressService struct {
	store store.Store
}

func NewProgressService(s store.Store) *ProgressService {
	return &ProgressService{store: s}
}

// Get returns the completion state of userID for the course with slug. An unknown
// course yields an empty result rather than an error.
func (s *ProgressService) Get(ctx context.Context, userID, slug string) (*CourseProgress, error) {
	course, err := s.store.FindCourseBySlug(ctx, strings.TrimSpace(slug))
	if errors.Is(err, store.ErrNotFound) {
		return &CourseProgress{CompletedTopics: []string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	done, err := s.completed(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}
	return s.report(ctx, course.ID, done)
}

// Set marks or clears one topic title for userID.
func (s *ProgressService) Set(ctx context.Context, userID string, upd ProgressUpdate) (*CourseProgress, error) {
	if err := utils.Validate(upd); err != nil {
		return nil, err
	}
	course, err := s.store.FindCourseBySlug(ctx, strings.TrimSpace(upd.CourseID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.NewNotFound("Course not found")
	}
	if err != nil {
		return nil, err
	}

	done, err := s.completed(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}
	done.Set(upd.TopicID, *upd.Completed)
	if err := s.store.SaveProgress(ctx, &models.Progress{
		UserID:          userID,
		CourseID:        course.ID,
		CompletedTopics: done.Titles(),
	}); err != nil {
		return nil, err
	}
	return s.report(ctx, course.ID, done)
}

func (s *ProgressService) completed(ctx context.Context, userID, courseID string) (models.CompletionSet, error) {
	p, err := s.store.GetProgress(ctx, userID, courseID)
	if errors.Is(err, store.ErrNotFound) {
		return models.NewCompletionSet(), nil
	}
	if err != nil {
		return nil, err
	}
	return models.NewCompletionSet(p.CompletedTopics...), nil
}

func (s *ProgressService) report(ctx context.Context, courseID string, done models.CompletionSet) (*CourseProgress, error) {
	out := &CourseProgress{CompletedTopics: done.Titles()}
	roadmap, err := s.store.LatestRoadmap(ctx, courseID)
	if errors.Is(err, store.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	report := models.BuildProgressReport(roadmap.Plan(), done)
	out.Progress = &report
	return out, nil
}
