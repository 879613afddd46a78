package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/availability"
	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/Freeeeeet/agenda_bot/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProfessionalReader interface {
	GetByID(ctx context.Context, id int64) (*model.Professional, error)
}

type AgendaReader interface {
	Day(ctx context.Context, professionalID int64, date time.Time) (*service.Agenda, error)
}

var errBadRequest = errors.New("bad request")

// Handler read-only API доступности специалиста
type Handler struct {
	engines       *service.EngineFactory
	professionals ProfessionalReader
	source        booking.SnapshotSource
	catalog       booking.ServiceCatalog
	agenda        AgendaReader
	logger        *zap.Logger
}

func NewHandler(
	engines *service.EngineFactory,
	professionals ProfessionalReader,
	source booking.SnapshotSource,
	catalog booking.ServiceCatalog,
	agenda AgendaReader,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		engines:       engines,
		professionals: professionals,
		source:        source,
		catalog:       catalog,
		agenda:        agenda,
		logger:        logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Dates GET /api/professionals/{id}/dates?kind=appointment|block
func (h *Handler) Dates(w http.ResponseWriter, r *http.Request) {
	p, engine, err := h.professional(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	kind := model.EntryKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = model.EntryKindAppointment
	}
	if kind != model.EntryKindAppointment && kind != model.EntryKindBlock {
		h.writeError(w, fmt.Errorf("%w: unknown kind %q", errBadRequest, kind))
		return
	}

	dates := engine.ListAvailableDates(p.WorkSchedule, engine.HorizonDays(kind))
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(availability.DateLayout)
	}
	writeJSON(w, http.StatusOK, map[string]any{"kind": kind, "dates": out})
}

// Slots GET /api/professionals/{id}/slots?date=&service_id=|duration=&exclude_kind=&exclude_id=
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	p, engine, err := h.professional(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	q := r.URL.Query()

	date, err := engine.ParseDate(q.Get("date"))
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	ex, err := parseExclusion(q.Get("exclude_kind"), q.Get("exclude_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	duration, err := h.duration(r.Context(), p.ID, q.Get("service_id"), q.Get("duration"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	occ, err := h.occupancy(r.Context(), p, date, ex)
	if err != nil {
		h.writeError(w, err)
		return
	}
	slots, err := engine.ListAvailableSlots(p.WorkSchedule, date, duration, occ)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if ex.IsZero() {
		slots = engine.Upcoming(date, slots)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":             date.Format(availability.DateLayout),
		"duration_minutes": duration,
		"slots":            slots,
	})
}

// EndTimes GET /api/professionals/{id}/end-times?date=&start=&exclude_id=
func (h *Handler) EndTimes(w http.ResponseWriter, r *http.Request) {
	p, engine, err := h.professional(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	q := r.URL.Query()

	date, err := engine.ParseDate(q.Get("date"))
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	ex, err := parseExclusion(string(model.EntryKindBlock), q.Get("exclude_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	occ, err := h.occupancy(r.Context(), p, date, ex)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ends, err := engine.ListEndTimes(p.WorkSchedule, date, q.Get("start"), occ)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":      date.Format(availability.DateLayout),
		"start":     q.Get("start"),
		"end_times": ends,
	})
}

type validateRequest struct {
	Date            string          `json:"date"`
	Start           string          `json:"start"`
	DurationMinutes int             `json:"duration_minutes"`
	ExcludeKind     model.EntryKind `json:"exclude_kind"`
	ExcludeID       int64           `json:"exclude_id"`
}

type intervalResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type validateResponse struct {
	OK                  bool              `json:"ok"`
	ConflictingInterval *intervalResponse `json:"conflicting_interval,omitempty"`
	Source              string            `json:"source,omitempty"`
}

// Validate POST /api/professionals/{id}/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	p, engine, err := h.professional(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: decode body: %v", errBadRequest, err))
		return
	}
	if req.DurationMinutes <= 0 {
		h.writeError(w, fmt.Errorf("%w: duration_minutes must be positive", errBadRequest))
		return
	}

	date, err := engine.ParseDate(req.Date)
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	candidate, err := availability.CandidateAt(date, req.Start, req.DurationMinutes)
	if err != nil {
		h.writeError(w, err)
		return
	}

	ex := availability.Exclusion{Kind: req.ExcludeKind, ID: req.ExcludeID}
	occ, err := h.occupancy(r.Context(), p, date, ex)
	if err != nil {
		h.writeError(w, err)
		return
	}
	decision, err := engine.ValidateCandidate(candidate, p.WorkSchedule, occ)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := validateResponse{OK: decision.OK}
	if decision.Conflict != nil {
		resp.ConflictingInterval = &intervalResponse{
			Start: decision.Conflict.Start.Format(time.RFC3339),
			End:   decision.Conflict.End.Format(time.RFC3339),
		}
		resp.Source = string(decision.Conflict.Source)
	}
	writeJSON(w, http.StatusOK, resp)
}

type agendaEntry struct {
	ID     int64  `json:"id"`
	Kind   string `json:"kind"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
	Client string `json:"client,omitempty"`
}

// Agenda GET /api/professionals/{id}/agenda?date=
func (h *Handler) Agenda(w http.ResponseWriter, r *http.Request) {
	p, engine, err := h.professional(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	date := engine.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err = engine.ParseDate(raw)
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	agenda, err := h.agenda.Day(r.Context(), p.ID, date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	entries := make([]agendaEntry, 0, len(agenda.Appointments)+len(agenda.Blocks))
	for _, a := range agenda.Appointments {
		e := agendaEntry{
			ID:     a.ID,
			Kind:   string(model.EntryKindAppointment),
			Start:  model.ClockOf(a.StartTime.In(engine.Location())).String(),
			End:    model.ClockOf(a.EndTime.In(engine.Location())).String(),
			Title:  a.Title,
			Status: string(a.Status),
		}
		if a.Client != nil {
			e.Client = a.Client.Name
		}
		entries = append(entries, e)
	}
	for _, b := range agenda.Blocks {
		entries = append(entries, agendaEntry{
			ID:    b.ID,
			Kind:  string(model.EntryKindBlock),
			Start: model.ClockOf(b.StartTime.In(engine.Location())).String(),
			End:   model.ClockOf(b.EndTime.In(engine.Location())).String(),
			Title: b.Title,
		})
	}

	free := make([]intervalResponse, len(agenda.Free))
	for i, iv := range agenda.Free {
		free[i] = intervalResponse{
			Start: model.ClockOf(iv.Start).String(),
			End:   model.ClockOf(iv.End).String(),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":    agenda.Date.Format(availability.DateLayout),
		"entries": entries,
		"free":    free,
	})
}

func (h *Handler) professional(r *http.Request) (*model.Professional, *availability.Engine, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid professional id", errBadRequest)
	}
	p, err := h.professionals.GetByID(r.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, fmt.Errorf("professional %d: %w", id, service.ErrNotFound)
	}
	return p, h.engines.For(p), nil
}

func (h *Handler) duration(ctx context.Context, professionalID int64, serviceID, minutes string) (int, error) {
	if serviceID != "" {
		id, err := strconv.ParseInt(serviceID, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid service_id", errBadRequest)
		}
		d, err := h.catalog.FetchServiceDuration(ctx, professionalID, id)
		if err != nil {
			return 0, err
		}
		if d <= 0 {
			return 0, fmt.Errorf("service %d: %w", id, service.ErrNotFound)
		}
		return d, nil
	}

	d, err := strconv.Atoi(minutes)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: service_id or positive duration is required", errBadRequest)
	}
	return d, nil
}

func (h *Handler) occupancy(ctx context.Context, p *model.Professional, date time.Time, ex availability.Exclusion) (availability.Occupancy, error) {
	appointments, err := h.source.FetchAppointments(ctx, p.ID, availability.StartOfDay(date))
	if err != nil {
		return availability.Occupancy{}, fmt.Errorf("fetch appointments: %w", err)
	}
	blocks, err := h.source.FetchTimeBlocks(ctx, p.ID, availability.StartOfDay(date))
	if err != nil {
		return availability.Occupancy{}, fmt.Errorf("fetch time blocks: %w", err)
	}
	snap := availability.Snapshot{Appointments: appointments, TimeBlocks: blocks}
	return availability.BuildOccupancy(p.WorkSchedule, date, snap, ex)
}

func parseExclusion(kind, id string) (availability.Exclusion, error) {
	if id == "" {
		return availability.Exclusion{}, nil
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return availability.Exclusion{}, fmt.Errorf("%w: invalid exclude_id", errBadRequest)
	}
	k := model.EntryKind(kind)
	if k == "" {
		k = model.EntryKindAppointment
	}
	return availability.Exclusion{Kind: k, ID: n}, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrInvalidTimeFormat),
		errors.Is(err, model.ErrInvalidTimeRange):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Availability request failed", zap.Error(err))
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
