package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"learnpath/backend/config"
	"learnpath/backend/models"
)

// GormStore is the relational backend, used for both postgres and sqlite.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

func PostgresDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return newMigratedGormStore(db)
}

func OpenSQLite(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %s: %w", path, err)
	}
	return newMigratedGormStore(db)
}

func newMigratedGormStore(db *gorm.DB) (*GormStore, error) {
	s := NewGormStore(db)
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&models.Course{}, &models.Roadmap{}, &models.Progress{}, &models.User{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func (s *GormStore) Persistent() bool { return true }

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return unavailable(err)
	}
}

func (s *GormStore) FindCourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var c models.Course
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, gormErr(err)
	}
	return &c, nil
}

func (s *GormStore) CreateCourse(ctx context.Context, course *models.Course) error {
	ensureID(&course.ID)
	return gormErr(s.db.WithContext(ctx).Create(course).Error)
}

func (s *GormStore) ListCourses(ctx context.Context, search string, limit int) ([]models.Course, error) {
	out := []models.Course{}
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, gormErr(err)
	}
	return out, nil
}

func (s *GormStore) CreateRoadmap(ctx context.Context, roadmap *models.Roadmap) error {
	ensureID(&roadmap.ID)
	return gormErr(s.db.WithContext(ctx).Create(roadmap).Error)
}

func (s *GormStore) LatestRoadmap(ctx context.Context, courseID string) (*models.Roadmap, error) {
	var r models.Roadmap
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		First(&r).Error
	if err != nil {
		return nil, gormErr(err)
	}
	return &r, nil
}

func (s *GormStore) ListRoadmaps(ctx context.Context, limit int) ([]models.Roadmap, error) {
	out := []models.Roadmap{}
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, gormErr(err)
	}
	return out, nil
}

func (s *GormStore) ApproveRoadmap(ctx context.Context, id string) (*models.Roadmap, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Roadmap{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"approved": true, "updated_at": s.now()})
	if res.Error != nil {
		return nil, gormErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var r models.Roadmap
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, gormErr(err)
	}
	return &r, nil
}

func (s *GormStore) GetProgress(ctx context.Context, userID, courseID string) (*models.Progress, error) {
	var p models.Progress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&p).Error
	if err != nil {
		return nil, gormErr(err)
	}
	return &p, nil
}

func (s *GormStore) SaveProgress(ctx context.Context, progress *models.Progress) error {
	return gormErr(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Progress
		err := tx.Where("user_id = ? AND course_id = ?", progress.UserID, progress.CourseID).First(&existing).Error
		switch {
		case err == nil:
			progress.ID = existing.ID
			progress.CreatedAt = existing.CreatedAt
			return tx.Save(progress).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			ensureID(&progress.ID)
			return tx.Create(progress).Error
		default:
			return err
		}
	}))
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	ensureID(&user.ID)
	return gormErr(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, gormErr(err)
	}
	return &u, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, gormErr(err)
	}
	return &u, nil
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, gormErr(err)
	}
	return &u, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	return gormErr(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Select("id", "created_at").First(&existing, "id = ?", user.ID).Error; err != nil {
			return err
		}
		user.CreatedAt = existing.CreatedAt
		return tx.Save(user).Error
	}))
}
