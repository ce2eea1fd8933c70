// Package api implements the booking REST API consumed by the LIFF booking
// form, plus the health endpoint. All responses share the {"success": bool}
// envelope the form expects.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flosclinic/benmeibot/internal/database"
)

// DefaultFollowUpDays is the follow-up plan used when an aftercare request
// does not specify one.
var DefaultFollowUpDays = database.FollowUpDays{1, 3, 7, 14}

// Handler serves the booking API routes.
type Handler struct {
	store  database.Store
	logger *slog.Logger
}

// NewHandler creates an API handler over the given store.
func NewHandler(store database.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With("component", "api"),
	}
}

// Register attaches the API routes to the given group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/doctors", h.listDoctors)
	g.GET("/schedules", h.listSchedules)
	g.POST("/appointments", h.createAppointment)
	g.GET("/appointments/:lineUserId", h.listAppointments)
	g.PATCH("/appointments/:id/cancel", h.cancelAppointment)
	g.POST("/aftercare", h.createAftercare)
}

// Health returns the health-check handler for the root endpoint.
func Health(serviceName string, store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := store.Ping(c.Request.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (h *Handler) listDoctors(c *gin.Context) {
	doctors, err := h.store.ListActiveDoctors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "無法取得醫師列表"})
		return
	}
	if doctors == nil {
		doctors = []database.Doctor{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "doctors": doctors})
}

func (h *Handler) listSchedules(c *gin.Context) {
	schedules, err := h.store.ListSchedules(c.Request.Context(), c.Query("doctor_id"), c.Query("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "無法取得排班資訊"})
		return
	}
	if schedules == nil {
		schedules = []database.Schedule{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "schedules": schedules})
}

type createAppointmentRequest struct {
	LineUserID      string `json:"line_user_id" binding:"required"`
	LineDisplayName string `json:"line_display_name"`
	PatientName     string `json:"patient_name" binding:"required"`
	PatientPhone    string `json:"patient_phone" binding:"required"`
	DoctorID        string `json:"doctor_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	AppointmentTime string `json:"appointment_time" binding:"required"`
	Notes           string `json:"notes"`
}

func (h *Handler) createAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "缺少必填欄位"})
		return
	}

	ctx := c.Request.Context()
	taken, err := h.store.HasAppointmentConflict(ctx, req.DoctorID, req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "預約失敗，請稍後再試"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "此時段已被預約"})
		return
	}

	appt := &database.Appointment{
		LineUserID:      req.LineUserID,
		LineDisplayName: req.LineDisplayName,
		PatientName:     req.PatientName,
		PatientPhone:    req.PatientPhone,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Notes:           req.Notes,
		Status:          database.AppointmentStatusPending,
	}
	if err := h.store.CreateAppointment(ctx, appt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "預約失敗，請稍後再試"})
		return
	}

	h.logger.InfoContext(ctx, "Appointment created",
		"appointment_id", appt.ID, "doctor_id", appt.DoctorID, "date", appt.AppointmentDate)
	c.JSON(http.StatusOK, gin.H{"success": true, "appointment": appt, "message": "預約成功！"})
}

func (h *Handler) listAppointments(c *gin.Context) {
	appts, err := h.store.ListAppointmentsByUser(c.Request.Context(), c.Param("lineUserId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "無法取得預約記錄"})
		return
	}
	if appts == nil {
		appts = []database.Appointment{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appts})
}

type cancelAppointmentRequest struct {
	LineUserID string `json:"line_user_id" binding:"required"`
}

func (h *Handler) cancelAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "找不到預約記錄"})
		return
	}

	var req cancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "缺少使用者資訊"})
		return
	}

	ctx := c.Request.Context()
	appt, err := h.store.GetAppointment(ctx, id, req.LineUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "取消預約失敗"})
		return
	}
	if appt == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "找不到預約記錄"})
		return
	}
	if appt.Status == database.AppointmentStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "此預約已被取消"})
		return
	}

	if err := h.store.UpdateAppointmentStatus(ctx, id, database.AppointmentStatusCancelled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "取消預約失敗"})
		return
	}

	h.logger.InfoContext(ctx, "Appointment cancelled", "appointment_id", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "預約已取消"})
}

type createAftercareRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	UserName      string `json:"user_name"`
	TreatmentName string `json:"treatment_name" binding:"required"`
	TreatmentDate string `json:"treatment_date" binding:"required"`
	FollowUpDays  []int  `json:"follow_up_days"`
	Notes         string `json:"notes"`
}

func (h *Handler) createAftercare(c *gin.Context) {
	var req createAftercareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "缺少必填欄位"})
		return
	}

	treatmentDate, err := time.Parse("2006-01-02", req.TreatmentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "日期格式錯誤"})
		return
	}

	followUpDays := database.FollowUpDays(req.FollowUpDays)
	if len(followUpDays) == 0 {
		followUpDays = DefaultFollowUpDays
	}

	sched := &database.AftercareSchedule{
		UserID:        req.UserID,
		UserName:      req.UserName,
		TreatmentName: req.TreatmentName,
		TreatmentDate: treatmentDate,
		FollowUpDays:  followUpDays,
		Notes:         req.Notes,
		Status:        database.AftercareStatusScheduled,
	}
	if err := h.store.CreateAftercareSchedule(c.Request.Context(), sched); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "建立關懷排程失敗"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "Aftercare schedule created",
		"schedule_id", sched.ID, "treatment", sched.TreatmentName)
	c.JSON(http.StatusOK, gin.H{"success": true, "schedule": sched})
}
