package timeslotRepo

import (
	"context"
	"errors"
	"fmt"

	"medischedule/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotNotFound is returned when a slot id does not belong to the doctor.
var ErrSlotNotFound = errors.New("time slot not found")

type TimeSlotRepository interface {
	CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error)
	DeleteByID(ctx context.Context, doctorID, slotID string) error
	GetByDoctorIDAndDate(ctx context.Context, doctorID, date string) ([]models.TimeSlot, error)
	// ListRange returns the doctor's slots dated from..to inclusive ("2006-01-02").
	ListRange(ctx context.Context, doctorID, from, to string) ([]models.TimeSlot, error)
	// LatestDate is the doctor's last slot date, or "" when there are none.
	LatestDate(ctx context.Context, doctorID string) (string, error)
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo constructs a TimeSlotRepository over db's "timeslots" collection.
func NewMongoTimeSlotRepo(db *mongo.Database) TimeSlotRepository {
	repo := &mongoTimeSlotRepo{coll: db.Collection("timeslots")}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create timeslot indexes: %v\n", err)
	}
	return repo
}
