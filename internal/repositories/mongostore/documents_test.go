package mongostore

import (
	"errors"
	"testing"
	"time"

	"taskclinic/backend/internal/models"
	"taskclinic/backend/internal/repositories"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestTaskDoc_RoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 6000000, time.UTC)
	due := models.NewDate(2024, time.February, 1)
	task := models.Task{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    uuid.Must(uuid.NewV4()),
		Title:     "Write report",
		Status:    models.TaskStatusPending,
		Priority:  models.TaskPriorityHigh,
		DueDate:   &due,
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc := toTaskDoc(&task)
	assert.Equal(t, 3, doc.PriorityRank)
	assert.False(t, doc.DueDateNull)

	back, err := fromTaskDoc(doc)
	require.NoError(t, err)
	assert.Equal(t, task, back)

	task.DueDate = nil
	doc = toTaskDoc(&task)
	assert.True(t, doc.DueDateNull)
	assert.Nil(t, doc.DueDate)
}

func TestTaskDoc_SurvivesBSON(t *testing.T) {
	task := models.Task{ID: uuid.Must(uuid.NewV4()), UserID: uuid.Must(uuid.NewV4()), Title: "x", Priority: models.TaskPriorityLow}
	raw, err := bson.Marshal(toTaskDoc(&task))
	require.NoError(t, err)

	var decoded bson.M
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, task.ID.String(), decoded["_id"])
	assert.Equal(t, task.UserID.String(), decoded["userId"])
	assert.Equal(t, int32(1), decoded["priorityRank"])
	assert.Equal(t, true, decoded["dueDateNull"])
}

func TestDoctorProfileDoc_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	profile := models.DoctorProfile{
		ID:             uuid.Must(uuid.NewV4()),
		UserID:         uuid.Must(uuid.NewV4()),
		Specialization: "Cardiology",
		Qualifications: []string{"MD"},
		AvailableSlots: []models.AvailableSlot{{Day: models.Monday, StartTime: "09:00", EndTime: "12:00"}},
		Rating:         4.5,
		Reviews: []models.Review{
			{PatientID: uuid.Must(uuid.NewV4()), Rating: 5, Comment: "great", Date: now},
		},
		Languages:            []string{"English"},
		AcceptingNewPatients: true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	back, err := fromDoctorProfileDoc(toDoctorProfileDoc(&profile))
	require.NoError(t, err)
	assert.Equal(t, profile, back)
}

func TestAppointmentDoc_RejectsBadIdentifiers(t *testing.T) {
	_, err := fromAppointmentDoc(appointmentDoc{ID: "not-a-uuid"})
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), repositories.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translate(dup), repositories.ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}
