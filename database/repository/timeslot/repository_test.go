package timeslotRepo

import (
	"context"
	"os"
	"testing"
	"time"

	"medischedule/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func exerciseRepository(t *testing.T, repo TimeSlotRepository) {
	t.Helper()
	ctx := context.Background()
	doctorID := "doc-" + uuid.NewString()

	latest, err := repo.LatestDate(ctx, doctorID)
	require.NoError(t, err)
	assert.Empty(t, latest)

	ids, err := repo.CreateMany(ctx, []models.TimeSlot{
		{DoctorID: doctorID, Date: "2030-01-07", StartTime: "09:00 AM", EndTime: "12:00 PM", Status: models.SlotAvailable},
		{DoctorID: doctorID, Date: "2030-01-07", StartTime: "01:00 PM", EndTime: "05:00 PM", Status: models.SlotUnavailable},
		{DoctorID: doctorID, Date: "2030-01-09", StartTime: "09:00 AM", EndTime: "12:00 PM", Status: models.SlotTentative},
		{DoctorID: "other-" + doctorID, Date: "2030-02-01", StartTime: "09:00 AM", EndTime: "10:00 AM", Status: models.SlotAvailable},
	})
	require.NoError(t, err)
	require.Len(t, ids, 4)
	for _, id := range ids {
		assert.NotEmpty(t, id)
	}

	day, err := repo.GetByDoctorIDAndDate(ctx, doctorID, "2030-01-07")
	require.NoError(t, err)
	assert.Len(t, day, 2)

	week, err := repo.ListRange(ctx, doctorID, "2030-01-06", "2030-01-12")
	require.NoError(t, err)
	assert.Len(t, week, 3)

	latest, err = repo.LatestDate(ctx, doctorID)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-09", latest)

	assert.ErrorIs(t, repo.DeleteByID(ctx, "other-"+doctorID, ids[0]), ErrSlotNotFound)
	require.NoError(t, repo.DeleteByID(ctx, doctorID, ids[0]))
	assert.ErrorIs(t, repo.DeleteByID(ctx, doctorID, ids[0]), ErrSlotNotFound)

	day, err = repo.GetByDoctorIDAndDate(ctx, doctorID, "2030-01-07")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, models.SlotUnavailable, day[0].Status)
}

func TestMemoryTimeSlotRepo(t *testing.T) {
	exerciseRepository(t, NewMemoryTimeSlotRepo())
}

func TestMongoTimeSlotRepo(t *testing.T) {
	uri := os.Getenv("DATABASE_URL")
	if uri == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	db := client.Database("medischedule_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	exerciseRepository(t, NewMongoTimeSlotRepo(db))
}
