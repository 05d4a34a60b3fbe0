package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"learnpath/backend/models"
)

const (
	coursesCollection  = "courses"
	roadmapsCollection = "roadmaps"
	progressCollection = "progress"
	usersCollection    = "users"
)

// MongoStore is the document backend.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// OpenMongo connects, pings the primary and ensures indexes.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("MONGODB_URI is empty")
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(database), now: time.Now}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		coursesCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		roadmapsCollection: {
			{Keys: bson.D{{Key: "course_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		progressCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}}, Options: unique},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
	}
	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

func (s *MongoStore) Persistent() bool { return true }

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return unavailable(err)
	}
}

func (s *MongoStore) findOne(ctx context.Context, coll string, filter interface{}, out interface{}, opts ...*options.FindOneOptions) error {
	return mongoErr(s.db.Collection(coll).FindOne(ctx, filter, opts...).Decode(out))
}

func (s *MongoStore) FindCourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var c models.Course
	if err := s.findOne(ctx, coursesCollection, bson.M{"slug": slug}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) CreateCourse(ctx context.Context, course *models.Course) error {
	ensureID(&course.ID)
	stamp(&course.CreatedAt, &course.UpdatedAt, s.now())
	_, err := s.db.Collection(coursesCollection).InsertOne(ctx, course)
	return mongoErr(err)
}

func (s *MongoStore) ListCourses(ctx context.Context, search string, limit int) ([]models.Course, error) {
	filter := bson.M{}
	if search = strings.TrimSpace(search); search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(coursesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoErr(err)
	}
	out := []models.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr(err)
	}
	return out, nil
}

func (s *MongoStore) CreateRoadmap(ctx context.Context, roadmap *models.Roadmap) error {
	ensureID(&roadmap.ID)
	stamp(&roadmap.CreatedAt, &roadmap.UpdatedAt, s.now())
	_, err := s.db.Collection(roadmapsCollection).InsertOne(ctx, roadmap)
	return mongoErr(err)
}

func (s *MongoStore) LatestRoadmap(ctx context.Context, courseID string) (*models.Roadmap, error) {
	var r models.Roadmap
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if err := s.findOne(ctx, roadmapsCollection, bson.M{"course_id": courseID}, &r, opts); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MongoStore) ListRoadmaps(ctx context.Context, limit int) ([]models.Roadmap, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(roadmapsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mongoErr(err)
	}
	out := []models.Roadmap{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr(err)
	}
	return out, nil
}

func (s *MongoStore) ApproveRoadmap(ctx context.Context, id string) (*models.Roadmap, error) {
	var r models.Roadmap
	err := s.db.Collection(roadmapsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"approved": true, "updated_at": s.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&r)
	if err != nil {
		return nil, mongoErr(err)
	}
	return &r, nil
}

func (s *MongoStore) GetProgress(ctx context.Context, userID, courseID string) (*models.Progress, error) {
	var p models.Progress
	if err := s.findOne(ctx, progressCollection, bson.M{"user_id": userID, "course_id": courseID}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) SaveProgress(ctx context.Context, progress *models.Progress) error {
	filter := bson.M{"user_id": progress.UserID, "course_id": progress.CourseID}
	existing, err := s.GetProgress(ctx, progress.UserID, progress.CourseID)
	switch {
	case err == nil:
		progress.ID = existing.ID
		progress.CreatedAt = existing.CreatedAt
	case !errors.Is(err, ErrNotFound):
		return err
	}
	ensureID(&progress.ID)
	stamp(&progress.CreatedAt, &progress.UpdatedAt, s.now())
	_, err = s.db.Collection(progressCollection).ReplaceOne(ctx, filter, progress, options.Replace().SetUpsert(true))
	return mongoErr(err)
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	ensureID(&user.ID)
	stamp(&user.CreatedAt, &user.UpdatedAt, s.now())
	_, err := s.db.Collection(usersCollection).InsertOne(ctx, user)
	return mongoErr(err)
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.findOne(ctx, usersCollection, bson.M{"_id": id}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.findOne(ctx, usersCollection, bson.M{"email": email}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.findOne(ctx, usersCollection, bson.M{"username": username}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) UpdateUser(ctx context.Context, user *models.User) error {
	existing, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}
	user.CreatedAt = existing.CreatedAt
	stamp(&user.CreatedAt, &user.UpdatedAt, s.now())
	res, err := s.db.Collection(usersCollection).ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
