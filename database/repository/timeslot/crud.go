package timeslotRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medischedule/models"
)

func (r *mongoTimeSlotRepo) CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(slots))
	ids := make([]string, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		ids[i] = slot.ID
		docs[i] = slot
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *mongoTimeSlotRepo) DeleteByID(ctx context.Context, doctorID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": slotID, "doctorId": doctorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *mongoTimeSlotRepo) GetByDoctorIDAndDate(ctx context.Context, doctorID, date string) ([]models.TimeSlot, error) {
	return r.find(ctx, bson.M{"doctorId": doctorID, "date": date})
}
