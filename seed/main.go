// Command seed fills MongoDB and PostgreSQL with demo schedules, accounts and appointments.
package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"medischedule/config"
	"medischedule/database"
	appointmentRepo "medischedule/database/repository/appointment"
	timeslotRepo "medischedule/database/repository/timeslot"
	userRepo "medischedule/database/repository/user"
	"medischedule/models"
	"medischedule/services/booking"
	"medischedule/services/doctor"
	"medischedule/services/schedule"
	"medischedule/services/session"
	"medischedule/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// candidateSlots are extra blocks occasionally added on top of the default week.
var candidateSlots = [][2]string{
	{"08:00 AM", "09:00 AM"},
	{"12:00 PM", "01:00 PM"},
	{"05:00 PM", "06:00 PM"},
}

func main() {
	weeks := flag.Int("weeks", 4, "seed through this many weeks, counting the current one")
	reset := flag.Bool("reset", false, "clear existing time slots before seeding")
	withAppointments := flag.Bool("appointments", true, "seed demo appointments into PostgreSQL")
	flag.Parse()

	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.InitDB()
	defer database.CloseDB(context.Background())

	if *reset {
		if _, err := db.Collection("timeslots").DeleteMany(ctx, bson.M{}); err != nil {
			logger.Fatal("Failed to clear timeslots collection", zap.Error(err))
		}
		logger.Info("Cleared timeslots")
	}

	weekStart, err := schedule.ParseWeekday(config.AppConfig.WeekStart)
	if err != nil {
		weekStart = time.Monday
	}
	slots := timeslotRepo.NewMongoTimeSlotRepo(db)
	svc := &schedule.DefaultScheduleService{Repo: slots, WeekStart: weekStart}
	directory := doctor.NewDirectory(doctor.SampleDoctors())
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// 1. Default weeks from each doctor's last slot, plus a tentative extra per new week
	now := time.Now()
	seededWeeks, extras := 0, 0
	for _, id := range directory.IDs() {
		weekStarts, err := svc.SeedAhead(ctx, id, now, *weeks)
		if err != nil {
			logger.Fatal("Failed to seed weeks", zap.String("doctorId", id), zap.Error(err))
		}
		for _, start := range weekStarts {
			extras += seedExtras(ctx, slots, id, schedule.WeekDays(start, weekStart), rng)
		}
		seededWeeks += len(weekStarts)
	}
	logger.Info("Seeded time slots", zap.Int("weeks", seededWeeks), zap.Int("extras", extras))

	// 2. Demo accounts with a known password
	sample := session.SampleUsers()
	reg := &session.DirectoryRegistrar{Users: userRepo.NewMongoUserRepo(db)}
	created, err := session.SeedUsers(ctx, reg, []models.Identity{sample[models.RolePatient], sample[models.RoleDoctor]}, "password123")
	if err != nil {
		logger.Fatal("Failed to seed accounts", zap.Error(err))
	}
	logger.Info("Seeded accounts", zap.Int("created", created))

	// 3. Demo appointments
	if !*withAppointments {
		return
	}
	pool := database.InitPostgres()
	defer pool.Close()
	appts := booking.SampleAppointments(directory, sample[models.RoleDoctor], sample[models.RolePatient], now)
	n, err := booking.SeedAppointments(ctx, appointmentRepo.NewPostgresAppointmentRepo(pool), appts)
	if err != nil {
		logger.Fatal("Failed to seed appointments", zap.Error(err))
	}
	logger.Info("Seeded appointments", zap.Int("created", n))
}

// seedExtras adds one tentative slot on a random weekday of the week.
func seedExtras(ctx context.Context, repo timeslotRepo.TimeSlotRepository, doctorID string, days []time.Time, rng *rand.Rand) int {
	day := days[rng.Intn(len(days))]
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return 0
	}
	span := candidateSlots[rng.Intn(len(candidateSlots))]
	slot := models.TimeSlot{
		ID:        uuid.NewString(),
		DoctorID:  doctorID,
		Date:      day.Format(utils.DateLayout),
		StartTime: span[0],
		EndTime:   span[1],
		Status:    models.SlotTentative,
	}
	if _, err := repo.CreateMany(ctx, []models.TimeSlot{slot}); err != nil {
		utils.GetLogger().Warn("Failed to add extra slot", zap.String("doctorId", doctorID), zap.Error(err))
		return 0
	}
	return 1
}
