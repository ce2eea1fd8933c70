package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Appointment statuses.
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
)

// Aftercare statuses. Scheduled entries are picked up by the daily sweep;
// completed entries are permanently excluded from it.
const (
	AftercareStatusScheduled = "scheduled"
	AftercareStatusCompleted = "completed"
)

// Doctor is a member of the clinic's medical staff.
type Doctor struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Specialty string    `db:"specialty" json:"specialty"`
	PhotoURL  string    `db:"photo_url" json:"photo_url"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Schedule is a doctor's slot availability for one date. TimeSlots is a JSON
// document; the bot core never interprets it, only the booking form does.
type Schedule struct {
	ID        int64     `db:"id" json:"id"`
	DoctorID  string    `db:"doctor_id" json:"doctor_id"`
	Date      string    `db:"date" json:"date"`
	TimeSlots string    `db:"time_slots" json:"time_slots"`
	Status    string    `db:"status" json:"status"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Appointment is a booked visit created through the booking form API.
type Appointment struct {
	ID              int64     `db:"id" json:"id"`
	LineUserID      string    `db:"line_user_id" json:"line_user_id"`
	LineDisplayName string    `db:"line_display_name" json:"line_display_name"`
	PatientName     string    `db:"patient_name" json:"patient_name"`
	PatientPhone    string    `db:"patient_phone" json:"patient_phone"`
	DoctorID        string    `db:"doctor_id" json:"doctor_id"`
	AppointmentDate string    `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string    `db:"appointment_time" json:"appointment_time"`
	Notes           string    `db:"notes" json:"notes"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// FollowUpDays is the ordered set of day offsets on which aftercare messages
// go out, stored as a JSON array column.
type FollowUpDays []int

// Value implements driver.Valuer.
func (f FollowUpDays) Value() (driver.Value, error) {
	if f == nil {
		f = FollowUpDays{}
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal follow-up days: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (f *FollowUpDays) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), f)
	case []byte:
		return json.Unmarshal(v, f)
	case nil:
		*f = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into FollowUpDays", src)
	}
}

// Contains reports whether day is one of the follow-up offsets.
func (f FollowUpDays) Contains(day int) bool {
	for _, d := range f {
		if d == day {
			return true
		}
	}
	return false
}

// Max returns the largest offset, or 0 when the set is empty.
func (f FollowUpDays) Max() int {
	max := 0
	for _, d := range f {
		if d > max {
			max = d
		}
	}
	return max
}

// AftercareSchedule tracks post-treatment follow-up messaging for one user.
// TreatmentName is free text, not a taxonomy reference.
type AftercareSchedule struct {
	ID            int64        `db:"id" json:"id"`
	UserID        string       `db:"user_id" json:"user_id"`
	UserName      string       `db:"user_name" json:"user_name"`
	TreatmentName string       `db:"treatment_name" json:"treatment_name"`
	TreatmentDate time.Time    `db:"treatment_date" json:"treatment_date"`
	FollowUpDays  FollowUpDays `db:"follow_up_days" json:"follow_up_days"`
	Notes         string       `db:"notes" json:"notes"`
	Status        string       `db:"status" json:"status"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}
