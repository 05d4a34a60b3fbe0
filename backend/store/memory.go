package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"learnpath/backend/models"
)

// MemoryStore keeps everything in process memory. It backs tests and the degraded mode
// used when no database is reachable.
type MemoryStore struct {
	mu       sync.RWMutex
	courses  map[string]models.Course
	roadmaps map[string]models.Roadmap
	order    []string
	progress map[progressKey]models.Progress
	users    map[string]models.User
	now      func() time.Time
}

type progressKey struct {
	userID, courseID string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:  make(map[string]models.Course),
		roadmaps: make(map[string]models.Roadmap),
		progress: make(map[progressKey]models.Progress),
		users:    make(map[string]models.User),
		now:      time.Now,
	}
}

func (m *MemoryStore) Persistent() bool { return false }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) FindCourseBySlug(_ context.Context, slug string) (*models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.courses {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateCourse(_ context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.Slug == course.Slug {
			return ErrDuplicate
		}
	}
	ensureID(&course.ID)
	stamp(&course.CreatedAt, &course.UpdatedAt, m.now())
	m.courses[course.ID] = *course
	return nil
}

func (m *MemoryStore) ListCourses(_ context.Context, search string, limit int) ([]models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		if search == "" || strings.Contains(strings.ToLower(c.Name), search) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Slug < out[j].Slug
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) CreateRoadmap(_ context.Context, roadmap *models.Roadmap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&roadmap.ID)
	stamp(&roadmap.CreatedAt, &roadmap.UpdatedAt, m.now())
	m.roadmaps[roadmap.ID] = copyRoadmap(*roadmap)
	m.order = append(m.order, roadmap.ID)
	return nil
}

func (m *MemoryStore) LatestRoadmap(_ context.Context, courseID string) (*models.Roadmap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		r := m.roadmaps[m.order[i]]
		if r.CourseID == courseID {
			out := copyRoadmap(r)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// ListRoadmaps returns up to limit roadmaps, newest first. A non-positive limit
// returns all of them.
func (m *MemoryStore) ListRoadmaps(_ context.Context, limit int) ([]models.Roadmap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.order) {
		limit = len(m.order)
	}
	out := make([]models.Roadmap, 0, limit)
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, copyRoadmap(m.roadmaps[m.order[i]]))
	}
	return out, nil
}

func (m *MemoryStore) ApproveRoadmap(_ context.Context, id string) (*models.Roadmap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roadmaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Approved = true
	r.UpdatedAt = m.now()
	m.roadmaps[id] = r
	out := copyRoadmap(r)
	return &out, nil
}

func (m *MemoryStore) GetProgress(_ context.Context, userID, courseID string) (*models.Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.progress[progressKey{userID, courseID}]
	if !ok {
		return nil, ErrNotFound
	}
	p.CompletedTopics = append([]string(nil), p.CompletedTopics...)
	return &p, nil
}

func (m *MemoryStore) SaveProgress(_ context.Context, progress *models.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey{progress.UserID, progress.CourseID}
	if existing, ok := m.progress[key]; ok {
		progress.ID = existing.ID
		progress.CreatedAt = existing.CreatedAt
	}
	ensureID(&progress.ID)
	stamp(&progress.CreatedAt, &progress.UpdatedAt, m.now())
	saved := *progress
	saved.CompletedTopics = append([]string(nil), progress.CompletedTopics...)
	m.progress[key] = saved
	return nil
}

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts(*user) {
		return ErrDuplicate
	}
	ensureID(&user.ID)
	stamp(&user.CreatedAt, &user.UpdatedAt, m.now())
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Email == email })
}

func (m *MemoryStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Username == username })
}

func (m *MemoryStore) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if m.conflicts(*user) {
		return ErrDuplicate
	}
	user.CreatedAt = existing.CreatedAt
	stamp(&user.CreatedAt, &user.UpdatedAt, m.now())
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) findUser(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// conflicts reports whether another user holds user's email or username. Callers hold mu.
func (m *MemoryStore) conflicts(user models.User) bool {
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email || u.Username == user.Username {
			return true
		}
	}
	return false
}

func copyRoadmap(r models.Roadmap) models.Roadmap {
	out := r
	out.Levels = models.NewRoadmap(r.CourseID, r.Plan()).Levels
	return out
}
