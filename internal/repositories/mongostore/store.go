// Package mongostore implements the repository contracts on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"taskclinic/backend/internal/filters"
	"taskclinic/backend/internal/models"
	"taskclinic/backend/internal/repositories"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection          = "users"
	tasksCollection          = "tasks"
	appointmentsCollection   = "appointments"
	doctorProfilesCollection = "doctorprofiles"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Open connects, verifies the connection and ensures indexes.
func Open(ctx context.Context, cfg Config) (*repositories.Repositories, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Printf("✅ Connected to MongoDB database %s", cfg.Database)
	return NewRepositories(client, db), nil
}

func NewRepositories(client *mongo.Client, db *mongo.Database) *repositories.Repositories {
	return &repositories.Repositories{
		Tasks: &taskRepository{c: collection[taskDoc, models.Task]{
			coll: db.Collection(tasksCollection), toDoc: toTaskDoc, fromDoc: fromTaskDoc,
		}},
		Users: &userRepository{c: collection[userDoc, models.User]{
			coll: db.Collection(usersCollection), toDoc: toUserDoc, fromDoc: fromUserDoc,
		}},
		Appointments: &appointmentRepository{c: collection[appointmentDoc, models.Appointment]{
			coll: db.Collection(appointmentsCollection), toDoc: toAppointmentDoc, fromDoc: fromAppointmentDoc,
		}},
		DoctorProfiles: &doctorProfileRepository{c: collection[doctorProfileDoc, models.DoctorProfile]{
			coll: db.Collection(doctorProfilesCollection), toDoc: toDoctorProfileDoc, fromDoc: fromDoctorProfileDoc,
		}},
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: client.Disconnect,
	}
}

// EnsureIndexes mirrors the relational schema: unique email, one profile
// per doctor, and the list access paths.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "dueDate", Value: 1}}},
		},
		appointmentsCollection: {
			{Keys: bson.D{{Key: "dateTime", Value: 1}, {Key: "doctor", Value: 1}}},
			{Keys: bson.D{{Key: "dateTime", Value: 1}, {Key: "patient", Value: 1}}},
		},
		doctorProfilesCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "specialization", Value: 1}}},
			{Keys: bson.D{{Key: "rating", Value: -1}}},
		},
	}
	for name, specs := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

type collection[D any, M any] struct {
	coll    *mongo.Collection
	toDoc   func(*M) D
	fromDoc func(D) (M, error)
}

func (c collection[D, M]) insert(ctx context.Context, rec *M) error {
	_, err := c.coll.InsertOne(ctx, c.toDoc(rec))
	return translate(err)
}

func (c collection[D, M]) findOne(ctx context.Context, filter bson.D) (*M, error) {
	var doc D
	if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	rec, err := c.fromDoc(doc)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c collection[D, M]) find(ctx context.Context, q filters.Query) ([]M, error) {
	cursor, err := c.coll.Find(ctx, q.BSON(), options.Find().SetSort(q.SortBSON()))
	if err != nil {
		return nil, translate(err)
	}
	var docs []D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]M, 0, len(docs))
	for _, d := range docs {
		rec, err := c.fromDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c collection[D, M]) replace(ctx context.Context, id uuid.UUID, rec *M) error {
	res, err := c.coll.ReplaceOne(ctx, byID(id), c.toDoc(rec))
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (c collection[D, M]) delete(ctx context.Context, id uuid.UUID) error {
	res, err := c.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func byID(id uuid.UUID) bson.D {
	return bson.D{{Key: "_id", Value: id.String()}}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(repositories.ErrDuplicate, err)
	}
	return err
}

type taskRepository struct {
	c collection[taskDoc, models.Task]
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.c.insert(ctx, task)
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return r.c.findOne(ctx, byID(id))
}

func (r *taskRepository) List(ctx context.Context, q filters.Query) ([]models.Task, error) {
	return r.c.find(ctx, q)
}

func (r *taskRepository) Save(ctx context.Context, task *models.Task) error {
	return r.c.replace(ctx, task.ID, task)
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.c.delete(ctx, id)
}

type userRepository struct {
	c collection[userDoc, models.User]
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.c.insert(ctx, user)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.c.findOne(ctx, byID(id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.c.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) FindByIDAndRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	return r.c.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}, {Key: "role", Value: string(role)}})
}

func (r *userRepository) FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.UserSummary, error) {
	out := make(map[uuid.UUID]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make(bson.A, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	opts := options.Find().SetProjection(bson.D{{Key: "firstName", Value: 1}, {Key: "lastName", Value: 1}})
	cursor, err := r.c.coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: keys}}}}, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		id, err := uuid.FromString(d.ID)
		if err != nil {
			return nil, err
		}
		out[id] = &models.UserSummary{ID: id, FirstName: d.FirstName, LastName: d.LastName}
	}
	return out, nil
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	return r.c.replace(ctx, user.ID, user)
}

type appointmentRepository struct {
	c collection[appointmentDoc, models.Appointment]
}

func (r *appointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	return r.c.insert(ctx, appt)
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return r.c.findOne(ctx, byID(id))
}

func (r *appointmentRepository) List(ctx context.Context, q filters.Query) ([]models.Appointment, error) {
	return r.c.find(ctx, q)
}

func (r *appointmentRepository) Save(ctx context.Context, appt *models.Appointment) error {
	return r.c.replace(ctx, appt.ID, appt)
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.c.delete(ctx, id)
}

type doctorProfileRepository struct {
	c collection[doctorProfileDoc, models.DoctorProfile]
}

func (r *doctorProfileRepository) Create(ctx context.Context, profile *models.DoctorProfile) error {
	return r.c.insert(ctx, profile)
}

func (r *doctorProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DoctorProfile, error) {
	return r.c.findOne(ctx, byID(id))
}

func (r *doctorProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DoctorProfile, error) {
	return r.c.findOne(ctx, bson.D{{Key: "user", Value: userID.String()}})
}

func (r *doctorProfileRepository) List(ctx context.Context, q filters.Query) ([]models.DoctorProfile, error) {
	return r.c.find(ctx, q)
}

func (r *doctorProfileRepository) Save(ctx context.Context, profile *models.DoctorProfile) error {
	return r.c.replace(ctx, profile.ID, profile)
}

func (r *doctorProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.c.delete(ctx, id)
}
