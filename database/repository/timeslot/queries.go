package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"medischedule/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListRange compares dates as strings; the fixed-width layout keeps that chronological.
func (r *mongoTimeSlotRepo) ListRange(ctx context.Context, doctorID, from, to string) ([]models.TimeSlot, error) {
	return r.find(ctx, bson.M{
		"doctorId": doctorID,
		"date":     bson.M{"$gte": from, "$lte": to},
	})
}

func (r *mongoTimeSlotRepo) find(ctx context.Context, filter bson.M) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}

func (r *mongoTimeSlotRepo) LatestDate(ctx context.Context, doctorID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"doctorId": doctorID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"maxDate": bson.M{"$max": "$date"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return "", fmt.Errorf("failed to aggregate max date: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		MaxDate string `bson:"maxDate"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return "", fmt.Errorf("failed to decode max date: %w", err)
	}
	if len(result) == 0 {
		return "", nil
	}
	return result[0].MaxDate, nil
}
