package timeslotRepo

import (
	"context"
	"sync"

	"medischedule/models"

	"github.com/google/uuid"
)

// MemoryTimeSlotRepo keeps slots in insertion order in process memory.
type MemoryTimeSlotRepo struct {
	mu    sync.RWMutex
	slots []models.TimeSlot
}

func NewMemoryTimeSlotRepo() *MemoryTimeSlotRepo {
	return &MemoryTimeSlotRepo{}
}

func (r *MemoryTimeSlotRepo) CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		ids[i] = slot.ID
		r.slots = append(r.slots, slot)
	}
	return ids, nil
}

func (r *MemoryTimeSlotRepo) DeleteByID(ctx context.Context, doctorID, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, slot := range r.slots {
		if slot.ID == slotID && slot.DoctorID == doctorID {
			r.slots = append(r.slots[:i], r.slots[i+1:]...)
			return nil
		}
	}
	return ErrSlotNotFound
}

func (r *MemoryTimeSlotRepo) GetByDoctorIDAndDate(ctx context.Context, doctorID, date string) ([]models.TimeSlot, error) {
	return r.ListRange(ctx, doctorID, date, date)
}

func (r *MemoryTimeSlotRepo) ListRange(ctx context.Context, doctorID, from, to string) ([]models.TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.TimeSlot
	for _, slot := range r.slots {
		if slot.DoctorID == doctorID && slot.Date >= from && slot.Date <= to {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (r *MemoryTimeSlotRepo) LatestDate(ctx context.Context, doctorID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	latest := ""
	for _, slot := range r.slots {
		if slot.DoctorID == doctorID && slot.Date > latest {
			latest = slot.Date
		}
	}
	return latest, nil
}
