package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courseforge/backend/services/course-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CoursesCollection is the name of the MongoDB collection holding course documents
const CoursesCollection = "courses"

// courseDocument is the stored shape of a course, keyed by a store-assigned ObjectID
type courseDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	models.Course `bson:",inline"`
}

func (d *courseDocument) toModel() *models.Course {
	course := d.Course
	course.ID = d.ID.Hex()
	if course.Chapters == nil {
		course.Chapters = []models.Chapter{}
	}
	return &course
}

type mongoCourseRepository struct {
	collection *mongo.Collection
}

// NewMongoCourseRepository creates a new MongoDB course repository
func NewMongoCourseRepository(db *mongo.Database) *mongoCourseRepository {
	return &mongoCourseRepository{
		collection: db.Collection(CoursesCollection),
	}
}

// Create inserts a new course document; the store assigns its ID
func (r *mongoCourseRepository) Create(ctx context.Context, course *models.Course) error {
	doc := courseDocument{Course: *course}
	if doc.Chapters == nil {
		doc.Chapters = []models.Chapter{}
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to create course: unexpected id type %T", result.InsertedID)
	}
	course.ID = id.Hex()
	return nil
}

// GetByID retrieves a course by its hex ID; malformed IDs are reported as not found
func (r *mongoCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrRecordNotFound
	}

	var doc courseDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return doc.toModel(), nil
}

// UpdateChapters replaces the chapters array of a course
func (r *mongoCourseRepository) UpdateChapters(ctx context.Context, id string, chapters []models.Chapter, updatedAt time.Time) error {
	if chapters == nil {
		chapters = []models.Chapter{}
	}
	update := bson.M{"$set": bson.M{"chapters": chapters, "updatedAt": updatedAt}}
	if err := r.updateByID(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update chapters: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of a manual edit
func (r *mongoCourseRepository) Update(ctx context.Context, id string, req *models.UpdateCourseRequest, updatedAt time.Time) error {
	set := bson.M{"updatedAt": updatedAt}

	fields := map[string]*string{
		"courseName":  req.CourseName,
		"description": req.Description,
		"category":    req.Category,
		"topic":       req.Topic,
		"level":       req.Level,
		"duration":    req.Duration,
	}
	for key, value := range fields {
		if value != nil {
			set[key] = *value
		}
	}
	if req.Chapters != nil {
		set["chapters"] = *req.Chapters
	}

	if err := r.updateByID(ctx, id, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

// SetPublished marks a course as published, stamping publication and modification time
func (r *mongoCourseRepository) SetPublished(ctx context.Context, id string, publishedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":      models.CourseStatusPublished,
		"publishedAt": publishedAt,
		"updatedAt":   publishedAt,
	}}
	if err := r.updateByID(ctx, id, update); err != nil {
		return fmt.Errorf("failed to publish course: %w", err)
	}
	return nil
}

// ListByStatus retrieves courses with the given status, newest first
func (r *mongoCourseRepository) ListByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"status": status}, opts)
}

// ListByUser retrieves the courses of an owner, most recently updated first
func (r *mongoCourseRepository) ListByUser(ctx context.Context, userID string) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

// Ping checks the connection to the deployment
func (r *mongoCourseRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

// EnsureIndexes creates the indexes backing the listing queries
func (r *mongoCourseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create course indexes: %w", err)
	}
	return nil
}

func (r *mongoCourseRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrRecordNotFound
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

func (r *mongoCourseRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Course, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	for cursor.Next(ctx) {
		var doc courseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode course: %w", err)
		}
		courses = append(courses, *doc.toModel())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}
