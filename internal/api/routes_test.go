// Package api_test tests the booking API handlers.
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/flosclinic/benmeibot/internal/api"
	"github.com/flosclinic/benmeibot/internal/database"
)

// fakeStore stubs the slices of the Store interface the API touches.
type fakeStore struct {
	database.Store

	doctors   []database.Doctor
	schedules []database.Schedule
	appts     []database.Appointment

	conflict    bool
	conflictErr error
	createErr   error

	appointment  *database.Appointment
	updateStatus []string

	aftercare []database.AftercareSchedule
	pingErr   error
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) ListActiveDoctors(context.Context) ([]database.Doctor, error) {
	return f.doctors, nil
}

func (f *fakeStore) ListSchedules(context.Context, string, string) ([]database.Schedule, error) {
	return f.schedules, nil
}

func (f *fakeStore) HasAppointmentConflict(context.Context, string, string, string) (bool, error) {
	return f.conflict, f.conflictErr
}

func (f *fakeStore) CreateAppointment(_ context.Context, appt *database.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	appt.ID = 42
	return nil
}

func (f *fakeStore) ListAppointmentsByUser(context.Context, string) ([]database.Appointment, error) {
	return f.appts, nil
}

func (f *fakeStore) GetAppointment(context.Context, int64, string) (*database.Appointment, error) {
	return f.appointment, nil
}

func (f *fakeStore) UpdateAppointmentStatus(_ context.Context, _ int64, status string) error {
	f.updateStatus = append(f.updateStatus, status)
	return nil
}

func (f *fakeStore) CreateAftercareSchedule(_ context.Context, sched *database.AftercareSchedule) error {
	sched.ID = 7
	f.aftercare = append(f.aftercare, *sched)
	return nil
}

func newTestServer(store database.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine.GET("/", api.Health("測試診所", store))
	api.NewHandler(store, log).Register(engine.Group("/api"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, newTestServer(&fakeStore{}), http.MethodGet, "/", nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("degraded when db unreachable", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, newTestServer(&fakeStore{pingErr: errors.New("down")}), http.MethodGet, "/", nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})
}

func TestListDoctors(t *testing.T) {
	t.Parallel()

	store := &fakeStore{doctors: []database.Doctor{{ID: "d1", Name: "陳醫師", Specialty: "皮膚科"}}}
	w := doJSON(t, newTestServer(store), http.MethodGet, "/api/doctors", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Success bool              `json:"success"`
		Doctors []database.Doctor `json:"doctors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || len(resp.Doctors) != 1 || resp.Doctors[0].Name != "陳醫師" {
		t.Errorf("unexpected response: %s", w.Body.String())
	}
}

func validAppointment() map[string]any {
	return map[string]any{
		"line_user_id":     "U123",
		"patient_name":     "王小明",
		"patient_phone":    "0912345678",
		"doctor_id":        "d1",
		"appointment_date": "2026-09-10",
		"appointment_time": "14:00",
	}
}

func TestCreateAppointment(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		w := doJSON(t, newTestServer(store), http.MethodPost, "/api/appointments", validAppointment())

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		var resp struct {
			Success     bool                 `json:"success"`
			Appointment database.Appointment `json:"appointment"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Appointment.ID != 42 {
			t.Errorf("appointment id = %d, want 42", resp.Appointment.ID)
		}
		if resp.Appointment.Status != database.AppointmentStatusPending {
			t.Errorf("status = %q, want pending", resp.Appointment.Status)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()

		body := validAppointment()
		delete(body, "patient_phone")
		w := doJSON(t, newTestServer(&fakeStore{}), http.MethodPost, "/api/appointments", body)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("slot conflict", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, newTestServer(&fakeStore{conflict: true}), http.MethodPost, "/api/appointments", validAppointment())
		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", w.Code)
		}
	})
}

func TestCancelAppointment(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{appointment: &database.Appointment{
			ID:     9,
			Status: database.AppointmentStatusPending,
		}}
		w := doJSON(t, newTestServer(store), http.MethodPatch, "/api/appointments/9/cancel",
			map[string]any{"line_user_id": "U123"})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if len(store.updateStatus) != 1 || store.updateStatus[0] != database.AppointmentStatusCancelled {
			t.Errorf("updateStatus = %v, want [cancelled]", store.updateStatus)
		}
	})

	t.Run("missing user id", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, newTestServer(&fakeStore{}), http.MethodPatch, "/api/appointments/9/cancel", map[string]any{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, newTestServer(&fakeStore{}), http.MethodPatch, "/api/appointments/9/cancel",
			map[string]any{"line_user_id": "U123"})
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("already cancelled", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{appointment: &database.Appointment{
			ID:     9,
			Status: database.AppointmentStatusCancelled,
		}}
		w := doJSON(t, newTestServer(store), http.MethodPatch, "/api/appointments/9/cancel",
			map[string]any{"line_user_id": "U123"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestCreateAftercare(t *testing.T) {
	t.Parallel()

	t.Run("defaults follow-up plan", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		w := doJSON(t, newTestServer(store), http.MethodPost, "/api/aftercare", map[string]any{
			"user_id":        "U123",
			"user_name":      "王小明",
			"treatment_name": "皮秒雷射",
			"treatment_date": "2026-08-30",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if len(store.aftercare) != 1 {
			t.Fatalf("got %d schedules, want 1", len(store.aftercare))
		}
		got := store.aftercare[0].FollowUpDays
		want := api.DefaultFollowUpDays
		if len(got) != len(want) {
			t.Fatalf("follow-up days = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("follow-up days = %v, want %v", got, want)
			}
		}
	})

	t.Run("bad date format", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, newTestServer(&fakeStore{}), http.MethodPost, "/api/aftercare", map[string]any{
			"user_id":        "U123",
			"treatment_name": "皮秒雷射",
			"treatment_date": "30/08/2026",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
