package filters_test

import (
	"testing"
	"time"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/filters"
	"taskclinic/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DryRun: true,
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestForTasks_EmptyParamsYieldOwnerScopeOnly(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	q, err := filters.ForTasks(owner, models.TaskParams{})
	require.NoError(t, err)

	require.Len(t, q.Clauses, 1)
	assert.Equal(t, filters.Eq{Field: filters.TaskOwner, Value: owner}, q.Clauses[0])
	assert.Equal(t, bson.D{{Key: "userId", Value: owner.String()}}, q.BSON())
}

func TestForTasks_AllParams(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	q, err := filters.ForTasks(owner, models.TaskParams{
		Status:   "completed",
		Priority: "high",
		Category: "errands",
		Search:   "  Milk ",
	})
	require.NoError(t, err)
	require.Len(t, q.Clauses, 5)

	search, ok := q.Clauses[4].(filters.Search)
	require.True(t, ok)
	assert.Equal(t, "Milk", search.Term)

	filter := q.BSON()
	assert.Equal(t, bson.E{Key: "status", Value: "completed"}, filter[1])
	assert.Equal(t, bson.E{Key: "priority", Value: "high"}, filter[2])
	assert.Equal(t, bson.E{Key: "category", Value: "errands"}, filter[3])
	assert.Equal(t, "$and", filter[4].Key)
}

func TestForTasks_RejectsUnknownEnums(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())

	_, err := filters.ForTasks(owner, models.TaskParams{Status: "done"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = filters.ForTasks(owner, models.TaskParams{Priority: "urgent"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestSearch_BSONQuotesRegex(t *testing.T) {
	q := filters.Query{}.With(filters.Search{
		Fields: []filters.Field{filters.TaskTitle, filters.TaskDescription},
		Term:   "a.b*",
	})
	filter := q.BSON()
	require.Len(t, filter, 1)

	and := filter[0].Value.(bson.A)
	or := and[0].(bson.D)[0].Value.(bson.A)
	title := or[0].(bson.D)[0]
	assert.Equal(t, "title", title.Key)
	assert.Equal(t, bson.D{{Key: "$regex", Value: `a\.b\*`}, {Key: "$options", Value: "i"}}, title.Value)
}

func TestTaskSort_BSON(t *testing.T) {
	q, err := filters.ForTasks(uuid.Must(uuid.NewV4()), models.TaskParams{})
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "dueDateNull", Value: 1},
		{Key: "dueDate", Value: 1},
		{Key: "priorityRank", Value: -1},
		{Key: "createdAt", Value: 1},
	}, q.SortBSON())
}

func TestApplyGorm_RendersScopeSearchAndOrder(t *testing.T) {
	db := dryRunDB(t)
	owner := uuid.Must(uuid.NewV4())
	q, err := filters.ForTasks(owner, models.TaskParams{Status: "pending", Search: "50%_off"})
	require.NoError(t, err)

	var tasks []models.Task
	stmt := q.ApplyGorm(db.Model(&models.Task{})).Find(&tasks).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "`user_id` = ?")
	assert.Contains(t, sql, "`status` = ?")
	assert.Contains(t, sql, "LOWER(`title`) LIKE LOWER(?)")
	assert.Contains(t, sql, " OR LOWER(`description`) LIKE LOWER(?)")
	assert.Contains(t, sql, "ORDER BY due_date IS NULL,due_date ASC,CASE priority WHEN 'high' THEN 3 WHEN 'low' THEN 1 WHEN 'medium' THEN 2 ELSE 0 END DESC,created_at ASC")
	assert.Contains(t, stmt.Vars, `%50\%\_off%`)
}

func TestForAppointments_ScopeDependsOnRole(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	q, err := filters.ForAppointments(models.Caller{ID: id, Role: models.RoleDoctor}, models.AppointmentParams{})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "doctor", Value: id.String()}}, q.BSON())

	q, err = filters.ForAppointments(models.Caller{ID: id, Role: models.RolePatient}, models.AppointmentParams{})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "patient", Value: id.String()}}, q.BSON())

	q, err = filters.ForAppointments(models.Caller{ID: id, Role: models.RoleAdmin}, models.AppointmentParams{})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "patient", Value: id.String()}}, q.BSON())
}

func TestForAppointments_RangeAndEnums(t *testing.T) {
	caller := models.Caller{ID: uuid.Must(uuid.NewV4()), Role: models.RolePatient}

	q, err := filters.ForAppointments(caller, models.AppointmentParams{
		Status: "scheduled",
		Type:   "telemedicine",
		From:   "2024-01-01",
		To:     "2024-01-31T23:59:59Z",
	})
	require.NoError(t, err)
	require.Len(t, q.Clauses, 4)
	rng := q.Clauses[3].(filters.Range)
	assert.Equal(t, "2024-01-01T00:00:00Z", rng.From.Format("2006-01-02T15:04:05Z07:00"))
	assert.Equal(t, "2024-01-31T23:59:59Z", rng.To.Format("2006-01-02T15:04:05Z07:00"))
	assert.Nil(t, rng.Before)

	_, err = filters.ForAppointments(caller, models.AppointmentParams{Type: "phone"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = filters.ForAppointments(caller, models.AppointmentParams{From: "2024-02-01", To: "2024-01-01"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = filters.ForAppointments(caller, models.AppointmentParams{From: "yesterday"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestForAppointments_DateOnlyToCoversWholeDay(t *testing.T) {
	caller := models.Caller{ID: uuid.Must(uuid.NewV4()), Role: models.RolePatient}

	q, err := filters.ForAppointments(caller, models.AppointmentParams{From: "2024-01-31", To: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, q.Clauses, 2)
	rng := q.Clauses[1].(filters.Range)
	assert.Nil(t, rng.To)
	require.NotNil(t, rng.Before)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), *rng.Before)

	bounds := q.BSON()[1].Value.(bson.D)
	assert.Equal(t, bson.D{
		{Key: "$gte", Value: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)},
		{Key: "$lt", Value: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
	}, bounds)

	var appts []models.Appointment
	sql := q.ApplyGorm(dryRunDB(t).Model(&models.Appointment{})).Find(&appts).Statement.SQL.String()
	assert.Contains(t, sql, "`date_time` >= ?")
	assert.Contains(t, sql, "`date_time` < ?")
	assert.NotContains(t, sql, "`date_time` <= ?")

	_, err = filters.ForAppointments(caller, models.AppointmentParams{From: "2024-01-31T18:00:00Z", To: "2024-01-31"})
	assert.NoError(t, err, "a later hour on the same day is inside a date-only bound")

	_, err = filters.ForAppointments(caller, models.AppointmentParams{From: "2024-02-01", To: "2024-01-31"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestForDoctors(t *testing.T) {
	q, err := filters.ForDoctors(models.DoctorParams{Specialization: "Cardiology", AcceptingNewPatients: "true"})
	require.NoError(t, err)
	require.Len(t, q.Clauses, 2)
	assert.Equal(t, filters.Eq{Field: filters.DoctorAccepting, Value: true}, q.Clauses[1])
	assert.Equal(t, bson.D{{Key: "rating", Value: -1}, {Key: "createdAt", Value: 1}}, q.SortBSON())

	_, err = filters.ForDoctors(models.DoctorParams{AcceptingNewPatients: "maybe"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
