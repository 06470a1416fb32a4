package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"studydesk/internal/logger"
	"studydesk/internal/notify"
	"studydesk/internal/service"
	"studydesk/internal/timetable"
)

const maxBodyBytes = 1 << 20

// Handler exposes the service commands over HTTP.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

func New(svc *service.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RouterOptions configure the optional parts of the router.
type RouterOptions struct {
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// StaticDir is served at "/" when set.
	StaticDir string
}

// NewRouter registers every route on a fresh router.
func (h *Handler) NewRouter(opts RouterOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	r.HandleFunc("/document", h.GetDocument).Methods("GET")

	// Reminder routes
	r.HandleFunc("/reminders", h.CreateReminder).Methods("POST")
	r.HandleFunc("/reminders", h.ListReminders).Methods("GET")
	r.HandleFunc("/reminders/{id}/status", h.UpdateReminderStatus).Methods("PATCH")
	r.HandleFunc("/reminders/{id}", h.DeleteReminder).Methods("DELETE")
	r.HandleFunc("/history", h.ListHistory).Methods("GET")

	// Skill routes
	r.HandleFunc("/skills", h.CreateSkill).Methods("POST")
	r.HandleFunc("/skills/resume", h.SaveResumeSkills).Methods("PUT")
	r.HandleFunc("/skills/new", h.NewSkills).Methods("GET")
	r.HandleFunc("/skills/extract", h.ExtractSkills).Methods("POST")
	r.HandleFunc("/skills/{id}", h.DeleteSkill).Methods("DELETE")

	// Timetable routes
	r.HandleFunc("/schedule", h.SaveSchedule).Methods("PUT")
	r.HandleFunc("/classes", h.SaveClass).Methods("POST")
	r.HandleFunc("/classes/{id}", h.DeleteClass).Methods("DELETE")
	r.HandleFunc("/subjects", h.SaveSubjects).Methods("PUT")
	r.HandleFunc("/attendance", h.MarkAttendance).Methods("POST")
	r.HandleFunc("/attendance", h.SaveAttendance).Methods("PUT")
	r.HandleFunc("/attendance/stats", h.AttendanceStats).Methods("GET")

	r.HandleFunc("/email-config", h.SaveEmailConfig).Methods("PUT")

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	// Static file server for frontend at "/"
	if opts.StaticDir != "" {
		staticFs := http.FileServer(http.Dir(opts.StaticDir))
		r.PathPrefix("/").Handler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if ctype := mime.TypeByExtension(filepath.Ext(req.URL.Path)); ctype != "" {
				w.Header().Set("Content-Type", ctype)
			}
			staticFs.ServeHTTP(w, req)
		}))
	}
	return r
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	d := h.svc.LoadDocument(r.Context())
	if d.EmailConfig != nil {
		redacted := d.EmailConfig.Redacted()
		d.EmailConfig = &redacted
	}
	writeJSON(w, http.StatusOK, d)
}

// Reminder Handlers
func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req service.ReminderInput
	if !h.decode(w, r, &req) {
		return
	}
	re, err := h.svc.CreateReminder(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, re)
}

func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListReminders(r.Context()))
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListHistory(r.Context()))
}

func (h *Handler) UpdateReminderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.svc.UpdateReminderStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteReminder(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Skill Handlers
func (h *Handler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req service.SkillInput
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.svc.CreateSkill(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// SaveResumeSkills accepts the resume either as text/plain or as {"text": ...}.
func (h *Handler) SaveResumeSkills(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readText(w, r)
	if !ok {
		return
	}
	list, err := h.svc.SaveResumeSkills(r.Context(), text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) ExtractSkills(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readText(w, r)
	if !ok {
		return
	}
	names := h.svc.ExtractSkills(text)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// readText accepts either a text/plain body or a JSON object {"text": "..."}.
func (h *Handler) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			h.badRequest(w, r, fmt.Errorf("failed to read request body: %w", err))
			return "", false
		}
		return string(body), true
	}
	var req struct {
		Text string `json:"text"`
	}
	if !h.decode(w, r, &req) {
		return "", false
	}
	return req.Text, true
}

func (h *Handler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSkill(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) NewSkills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.NewSkills(r.Context()))
}

// Timetable Handlers
func (h *Handler) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	var req []timetable.Class
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.svc.SaveSchedule(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SaveClass(w http.ResponseWriter, r *http.Request) {
	var req timetable.Class
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.svc.SaveClass(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteClass(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SaveSubjects(w http.ResponseWriter, r *http.Request) {
	var req []timetable.Subject
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.svc.SaveSubjects(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req service.AttendanceInput
	if !h.decode(w, r, &req) {
		return
	}
	rec, err := h.svc.MarkAttendance(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) SaveAttendance(w http.ResponseWriter, r *http.Request) {
	var req []timetable.AttendanceRecord
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.svc.SaveAttendance(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) AttendanceStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.AttendanceStats(r.Context()))
}

func (h *Handler) SaveEmailConfig(w http.ResponseWriter, r *http.Request) {
	var req notify.EmailConfig
	if !h.decode(w, r, &req) {
		return
	}
	cfg, err := h.svc.SaveEmailConfig(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg.Redacted())
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.badRequest(w, r, fmt.Errorf("failed to read request body: %w", err))
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.logger.Debug("bad request body", zap.String("path", r.URL.Path), zap.String("body", logger.TruncateForLog(string(body), 512)))
		h.badRequest(w, r, err)
		return false
	}
	return true
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("bad request", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case !service.IsClientError(err):
		h.logger.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.badRequest(w, r, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_agent", r.UserAgent()),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
