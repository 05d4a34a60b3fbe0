package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"learnpath/backend/models"
	"learnpath/backend/utils"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrUnavailable wraps every other backend failure. It renders as a
	// PersistenceUnavailable error at the HTTP boundary.
	ErrUnavailable error = utils.NewPersistenceUnavailable("Database unavailable")
)

// unavailable wraps err in ErrUnavailable unless it already carries a store sentinel.
func unavailable(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Store persists courses, roadmaps, progress and users. The same interface is served by
// the durable backends and by MemoryStore; Persistent tells them apart.
type Store interface {
	Persistent() bool

	FindCourseBySlug(ctx context.Context, slug string) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	// ListCourses returns courses whose name contains search (case-insensitive),
	// newest first.
	ListCourses(ctx context.Context, search string, limit int) ([]models.Course, error)

	CreateRoadmap(ctx context.Context, roadmap *models.Roadmap) error
	LatestRoadmap(ctx context.Context, courseID string) (*models.Roadmap, error)
	ListRoadmaps(ctx context.Context, limit int) ([]models.Roadmap, error)
	ApproveRoadmap(ctx context.Context, id string) (*models.Roadmap, error)

	GetProgress(ctx context.Context, userID, courseID string) (*models.Progress, error)
	// SaveProgress inserts or replaces the record for (UserID, CourseID).
	SaveProgress(ctx context.Context, progress *models.Progress) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	Close() error
}

// FindOrCreateCourse returns the course with name's slug, creating it if needed.
func FindOrCreateCourse(ctx context.Context, s Store, name string) (*models.Course, error) {
	name = strings.TrimSpace(name)
	slug := models.Slugify(name)
	course, err := s.FindCourseBySlug(ctx, slug)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	course = &models.Course{Name: name, Slug: slug}
	err = s.CreateCourse(ctx, course)
	if errors.Is(err, ErrDuplicate) {
		// created concurrently
		return s.FindCourseBySlug(ctx, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("create course %q: %w", slug, err)
	}
	return course, nil
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
