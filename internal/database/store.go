package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations. Methods accept a
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// ListActiveDoctors retrieves all active doctors ordered by name.
	ListActiveDoctors(ctx context.Context) ([]Doctor, error)

	// GetSchedule retrieves a doctor's schedule for a date.
	// Returns nil, nil when no schedule exists.
	GetSchedule(ctx context.Context, doctorID, date string) (*Schedule, error)

	// ListSchedules retrieves schedules, optionally filtered by doctor and date.
	ListSchedules(ctx context.Context, doctorID, date string) ([]Schedule, error)

	// CreateAppointment inserts a new appointment and sets its generated ID.
	CreateAppointment(ctx context.Context, appt *Appointment) error

	// HasAppointmentConflict reports whether a non-cancelled appointment
	// already occupies the given doctor/date/time slot.
	HasAppointmentConflict(ctx context.Context, doctorID, date, timeSlot string) (bool, error)

	// ListAppointmentsByUser retrieves a LINE user's appointments, newest first.
	ListAppointmentsByUser(ctx context.Context, lineUserID string) ([]Appointment, error)

	// GetAppointment retrieves one appointment owned by the given LINE user.
	// Returns nil, nil when not found.
	GetAppointment(ctx context.Context, id int64, lineUserID string) (*Appointment, error)

	// UpdateAppointmentStatus sets an appointment's status.
	UpdateAppointmentStatus(ctx context.Context, id int64, status string) error

	// CreateAftercareSchedule inserts a new aftercare schedule.
	CreateAftercareSchedule(ctx context.Context, sched *AftercareSchedule) error

	// ListScheduledAftercare retrieves all aftercare schedules still in the
	// scheduled state.
	ListScheduledAftercare(ctx context.Context) ([]AftercareSchedule, error)

	// UpdateAftercareStatus sets an aftercare schedule's status.
	UpdateAftercareStatus(ctx context.Context, id int64, status string) error

	// RunMaintenance performs periodic database maintenance (VACUUM, ANALYZE).
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) ListActiveDoctors(ctx context.Context) ([]Doctor, error) {
	var doctors []Doctor
	query := `SELECT * FROM doctors WHERE is_active = 1 ORDER BY name ASC;`
	if err := s.db.SelectContext(ctx, &doctors, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing active doctors", "error", err)
		return nil, fmt.Errorf("failed to list active doctors: %w", err)
	}
	return doctors, nil
}

func (s *sqlxStore) GetSchedule(ctx context.Context, doctorID, date string) (*Schedule, error) {
	var sched Schedule
	query := `SELECT * FROM schedules WHERE doctor_id = ? AND date = ?;`
	err := s.db.GetContext(ctx, &sched, query, doctorID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Error fetching schedule", "doctor_id", doctorID, "date", date, "error", err)
		return nil, fmt.Errorf("failed to get schedule (doctor %s, date %s): %w", doctorID, date, err)
	}
	return &sched, nil
}

func (s *sqlxStore) ListSchedules(ctx context.Context, doctorID, date string) ([]Schedule, error) {
	query := `SELECT * FROM schedules WHERE 1=1`
	args := []any{}
	if doctorID != "" {
		query += ` AND doctor_id = ?`
		args = append(args, doctorID)
	}
	if date != "" {
		query += ` AND date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY date ASC;`

	var scheds []Schedule
	if err := s.db.SelectContext(ctx, &scheds, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error listing schedules", "doctor_id", doctorID, "date", date, "error", err)
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return scheds, nil
}

func (s *sqlxStore) CreateAppointment(ctx context.Context, appt *Appointment) error {
	if appt == nil {
		return fmt.Errorf("cannot create nil appointment")
	}
	if appt.Status == "" {
		appt.Status = AppointmentStatusPending
	}
	appt.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO appointments
            (line_user_id, line_display_name, patient_name, patient_phone,
             doctor_id, appointment_date, appointment_time, notes, status, created_at)
        VALUES
            (:line_user_id, :line_display_name, :patient_name, :patient_phone,
             :doctor_id, :appointment_date, :appointment_time, :notes, :status, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, appt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating appointment",
			"line_user_id", appt.LineUserID, "doctor_id", appt.DoctorID, "error", err)
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		appt.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after creating appointment", "error", err)
	}
	return nil
}

func (s *sqlxStore) HasAppointmentConflict(ctx context.Context, doctorID, date, timeSlot string) (bool, error) {
	var count int
	query := `
        SELECT COUNT(*) FROM appointments
        WHERE doctor_id = ? AND appointment_date = ? AND appointment_time = ?
          AND status != ?;
    `
	if err := s.db.GetContext(ctx, &count, query, doctorID, date, timeSlot, AppointmentStatusCancelled); err != nil {
		s.logger.ErrorContext(ctx, "Error checking appointment conflict",
			"doctor_id", doctorID, "date", date, "time", timeSlot, "error", err)
		return false, fmt.Errorf("failed to check appointment conflict: %w", err)
	}
	return count > 0, nil
}

func (s *sqlxStore) ListAppointmentsByUser(ctx context.Context, lineUserID string) ([]Appointment, error) {
	var appts []Appointment
	query := `
        SELECT * FROM appointments
        WHERE line_user_id = ?
        ORDER BY appointment_date DESC, appointment_time DESC;
    `
	if err := s.db.SelectContext(ctx, &appts, query, lineUserID); err != nil {
		s.logger.ErrorContext(ctx, "Error listing appointments", "line_user_id", lineUserID, "error", err)
		return nil, fmt.Errorf("failed to list appointments for user %s: %w", lineUserID, err)
	}
	return appts, nil
}

func (s *sqlxStore) GetAppointment(ctx context.Context, id int64, lineUserID string) (*Appointment, error) {
	var appt Appointment
	query := `SELECT * FROM appointments WHERE id = ? AND line_user_id = ?;`
	err := s.db.GetContext(ctx, &appt, query, id, lineUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Error fetching appointment", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get appointment %d: %w", id, err)
	}
	return &appt, nil
}

func (s *sqlxStore) UpdateAppointmentStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE appointments SET status = ? WHERE id = ?;`
	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating appointment status", "id", id, "status", status, "error", err)
		return fmt.Errorf("failed to update appointment %d status: %w", id, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("appointment %d not found", id)
	}
	return nil
}

func (s *sqlxStore) CreateAftercareSchedule(ctx context.Context, sched *AftercareSchedule) error {
	if sched == nil {
		return fmt.Errorf("cannot create nil aftercare schedule")
	}
	if sched.UserID == "" {
		return fmt.Errorf("aftercare schedule must have a user id")
	}
	if sched.TreatmentName == "" {
		return fmt.Errorf("aftercare schedule must have a treatment name")
	}
	if sched.Status == "" {
		sched.Status = AftercareStatusScheduled
	}
	sched.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO aftercare_schedules
            (user_id, user_name, treatment_name, treatment_date, follow_up_days, notes, status, created_at)
        VALUES
            (:user_id, :user_name, :treatment_name, :treatment_date, :follow_up_days, :notes, :status, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, sched)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating aftercare schedule", "user_id", sched.UserID, "error", err)
		return fmt.Errorf("failed to create aftercare schedule: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		sched.ID = id
	}
	return nil
}

func (s *sqlxStore) ListScheduledAftercare(ctx context.Context) ([]AftercareSchedule, error) {
	var scheds []AftercareSchedule
	query := `SELECT * FROM aftercare_schedules WHERE status = ? ORDER BY id ASC;`
	if err := s.db.SelectContext(ctx, &scheds, query, AftercareStatusScheduled); err != nil {
		s.logger.ErrorContext(ctx, "Error listing scheduled aftercare", "error", err)
		return nil, fmt.Errorf("failed to list scheduled aftercare: %w", err)
	}
	return scheds, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	for _, stmt := range []string{"VACUUM;", "ANALYZE;"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "Error running database maintenance", "statement", stmt, "error", err)
			return fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *sqlxStore) UpdateAftercareStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE aftercare_schedules SET status = ? WHERE id = ?;`
	if _, err := s.db.ExecContext(ctx, query, status, id); err != nil {
		s.logger.ErrorContext(ctx, "Error updating aftercare status", "id", id, "status", status, "error", err)
		return fmt.Errorf("failed to update aftercare schedule %d status: %w", id, err)
	}
	return nil
}
