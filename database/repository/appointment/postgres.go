package appointmentRepo

import (
	"context"
	"errors"
	"fmt"

	"medischedule/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation = "23505"
	activeSlotIndex = "appointments_active_slot_idx"
)

const selectColumns = `id, doctor_id, doctor_name, specialization, patient_id, patient_name,
	patient_email, patient_phone, date, time, duration, reason, location, status, notes, created_at`

// PostgresAppointmentRepo stores appointments in PostgreSQL.
type PostgresAppointmentRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresAppointmentRepo(pool *pgxpool.Pool) *PostgresAppointmentRepo {
	return &PostgresAppointmentRepo{pool: pool}
}

func (r *PostgresAppointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO appointments (id, doctor_id, doctor_name, specialization, patient_id, patient_name,
		                           patient_email, patient_phone, date, time, duration, reason, location, status, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 RETURNING created_at`,
		a.ID, a.DoctorID, a.DoctorName, a.Specialty, a.PatientID, a.PatientName,
		a.PatientEmail, a.PatientPhone, a.Date, a.Time, a.Duration, a.Reason, a.Location, a.Status, a.Notes,
	).Scan(&a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == activeSlotIndex {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresAppointmentRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM appointments WHERE doctor_id = $1 ORDER BY date, time`, doctorID)
}

func (r *PostgresAppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM appointments WHERE patient_id = $1 ORDER BY date, time`, patientID)
}

func (r *PostgresAppointmentRepo) list(ctx context.Context, query string, args ...any) ([]models.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *PostgresAppointmentRepo) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrAppointmentNotFound
	}
	return ErrStatusChanged
}

func (r *PostgresAppointmentRepo) ActiveTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT time FROM appointments
		 WHERE doctor_id = $1 AND date = $2 AND status IN ('pending', 'confirmed')`,
		doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func scanAppointment(row pgx.Row) (*models.Appointment, error) {
	var a models.Appointment
	err := row.Scan(
		&a.ID, &a.DoctorID, &a.DoctorName, &a.Specialty, &a.PatientID, &a.PatientName,
		&a.PatientEmail, &a.PatientPhone, &a.Date, &a.Time, &a.Duration, &a.Reason,
		&a.Location, &a.Status, &a.Notes, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
