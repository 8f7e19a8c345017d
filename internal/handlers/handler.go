package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/csg33k/people-indicators/internal/adapters/pdf"
	"github.com/csg33k/people-indicators/internal/analytics"
	"github.com/csg33k/people-indicators/internal/domain"
	"github.com/csg33k/people-indicators/internal/metrics"
	"github.com/csg33k/people-indicators/internal/ports"
	"github.com/csg33k/people-indicators/internal/templates"
)

// Options tune the dashboard. Zero values fall back to the defaults below.
type Options struct {
	SessionTTL     time.Duration
	MaxUploadBytes int64
	// Metrics is mounted at MetricsPath when non-nil.
	Metrics     http.Handler
	MetricsPath string
	Logger      *slog.Logger
	// Now is the only clock the handlers read; every computation gets its
	// reference date from it.
	Now func() time.Time
}

const (
	defaultSessionTTL     = 2 * time.Hour
	defaultMaxUploadBytes = 32 << 20
)

type Handler struct {
	store  ports.SessionStore
	loader ports.RosterLoader
	geo    ports.GeoSource
	opts   Options
	log    *slog.Logger
	now    func() time.Time
}

func New(store ports.SessionStore, loader ports.RosterLoader, geo ports.GeoSource, opts Options) *Handler {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	h := &Handler{store: store, loader: loader, geo: geo, opts: opts, log: opts.Logger, now: opts.Now}
	if h.log == nil {
		h.log = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("POST /upload", h.upload)
	mux.HandleFunc("GET /tabs/{name}", h.tab)
	mux.HandleFunc("GET /turnover", h.turnover)
	mux.HandleFunc("GET /turnover/pdf", h.turnoverPDF)
	mux.HandleFunc("GET /data", h.data)
	mux.HandleFunc("POST /session/reset", h.reset)
	mux.HandleFunc("GET /geo/states.geojson", h.statesGeoJSON)
	mux.HandleFunc("GET /healthz", h.healthz)
	if h.opts.Metrics != nil {
		mux.Handle("GET "+h.opts.MetricsPath, h.opts.Metrics)
	}
	return RequestID(Logger(h.log)(Recoverer(h.log)(mux)))
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(w, r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data := templates.IndexData{
		Session:        s,
		MaxUploadBytes: h.opts.MaxUploadBytes,
		Tabs:           templates.Tabs,
	}
	if s.HasRoster() {
		data.Headline = analytics.Headline(s.Roster, h.now())
	}
	render(w, r, templates.Index(data))
}

// upload replaces the session's roster with the uploaded workbook, creating
// the session on first upload. A rejected file leaves the previous roster
// in place.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	limit := h.opts.MaxUploadBytes
	tooLarge := fmt.Sprintf("O arquivo excede o limite de %d MB.", limit>>20)
	if r.ContentLength > limit+(1<<20) {
		h.uploadFailed(w, r, http.StatusRequestEntityTooLarge, tooLarge, errors.New("content length over limit"))
		return
	}
	// Multipart framing needs some room beyond the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.uploadFailed(w, r, http.StatusRequestEntityTooLarge, tooLarge, err)
			return
		}
		h.uploadFailed(w, r, http.StatusBadRequest, "Selecione uma planilha .xlsx ou .xls.", err)
		return
	}
	defer file.Close()
	if header.Size > limit {
		h.uploadFailed(w, r, http.StatusRequestEntityTooLarge, tooLarge, errors.New("file over limit"))
		return
	}

	roster, report, err := h.loader.Load(r.Context(), file, header.Filename)
	if err != nil {
		status, msg := loadErrorResponse(err)
		h.uploadFailed(w, r, status, msg, err)
		return
	}

	s, err := h.session(w, r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	now := h.now()
	if s == nil {
		s, err = h.store.Create(r.Context(), now.Add(h.opts.SessionTTL))
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		setSessionCookie(w, s)
	}
	if err := h.store.ReplaceRoster(r.Context(), s.ID, header.Filename, roster, now); err != nil {
		metrics.ObserveUpload(0, err)
		h.serverError(w, r, err)
		return
	}
	metrics.ObserveUpload(len(roster), nil)
	h.log.Info("roster loaded",
		"session", s.ID,
		"file", header.Filename,
		"rows", report.RowsRead,
		"skipped", report.RowsSkipped,
		"invalid_dates", report.InvalidDates,
	)

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("HX-Trigger", "roster-loaded")
	render(w, r, templates.UploadResult(report))
}

func (h *Handler) uploadFailed(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	metrics.ObserveUpload(0, err)
	h.log.Warn("upload rejected", "err", err, "status", status, "request_id", RequestIDFromContext(r.Context()))
	renderStatus(w, r, status, templates.ErrorBanner(msg))
}

func loadErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "Formato não suportado. Envie um arquivo .xlsx ou .xls."
	case errors.Is(err, domain.ErrSheetNotFound):
		return http.StatusBadRequest, `A planilha precisa ter uma aba chamada "` + domain.SheetName + `".`
	case errors.Is(err, domain.ErrMissingColumns):
		return http.StatusBadRequest, "Colunas obrigatórias ausentes: " + strings.TrimPrefix(err.Error(), domain.ErrMissingColumns.Error()+": ")
	default:
		return http.StatusBadRequest, "Não foi possível ler a planilha: " + err.Error()
	}
}

func (h *Handler) tab(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	known := false
	for _, t := range templates.Tabs {
		if t.Name == name {
			known = true
			break
		}
	}
	if !known {
		http.NotFound(w, r)
		return
	}
	s, ok := h.loadedSession(w, r)
	if !ok {
		return
	}
	asOf := h.now()
	switch name {
	case templates.TabDemographics:
		render(w, r, templates.DemographicsTab(analytics.Demographics(s.Roster)))
	case templates.TabAgeTenure:
		render(w, r, templates.AgeTenureTab(analytics.AgeTenure(s.Roster, asOf)))
	case templates.TabGeography:
		data := templates.GeographyData{Geography: analytics.Geography(s.Roster)}
		if _, err := h.geo.StatesGeoJSON(r.Context()); err != nil {
			h.log.Warn("states geojson unavailable", "err", err)
			data.MapError = "Não foi possível carregar o mapa dos estados: " + err.Error()
		}
		render(w, r, templates.GeographyTab(data))
	case templates.TabTurnover:
		render(w, r, templates.TurnoverTab(analytics.Report(s.Roster, s.Filter)))
	case templates.TabData:
		render(w, r, templates.DataTab(templates.NewDataPage(s.Roster, s.FileName, 1)))
	}
}

// turnover recomputes the turnover view for the filter in the query string
// and remembers it for the session.
func (h *Handler) turnover(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		renderStatus(w, r, http.StatusBadRequest, templates.ErrorBanner(err.Error()))
		return
	}
	s, ok := h.loadedSession(w, r)
	if !ok {
		return
	}
	rep := analytics.Report(s.Roster, f)
	if err := h.store.SaveFilter(r.Context(), s.ID, rep.Filter); err != nil {
		h.serverError(w, r, err)
		return
	}
	render(w, r, templates.TurnoverTab(rep))
}

func (h *Handler) turnoverPDF(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	s, err := h.session(w, r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !s.HasRoster() {
		http.Error(w, domain.ErrNoRoster.Error(), 400)
		return
	}
	if !r.URL.Query().Has("gender") && !r.URL.Query().Has("role") && !r.URL.Query().Has("year") {
		f = s.Filter
	}
	rep := analytics.Report(s.Roster, f)
	var buf bytes.Buffer
	if err := pdf.GeneratePDF(&rep, pdf.Source{FileName: s.FileName, GeneratedAt: h.now()}, &buf); err != nil {
		h.serverError(w, r, err)
		return
	}
	filename := fmt.Sprintf("rotatividade_%d_%s.pdf", rep.Result.Year, h.now().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

func (h *Handler) data(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid page", 400)
			return
		}
		page = p
	}
	s, ok := h.loadedSession(w, r)
	if !ok {
		return
	}
	render(w, r, templates.DataTab(templates.NewDataPage(s.Roster, s.FileName, page)))
}

// reset ends the session: roster and filter are discarded.
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.store.Destroy(r.Context(), cookie.Value); err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	clearSessionCookie(w)
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("HX-Redirect", "/")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) statesGeoJSON(w http.ResponseWriter, r *http.Request) {
	body, err := h.geo.StatesGeoJSON(r.Context())
	if err != nil {
		h.log.Warn("states geojson unavailable", "err", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(body)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("request failed", "err", err, "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()))
	http.Error(w, err.Error(), 500)
}

// parseFilter reads gender, role and year from the query string. Blank
// values mean "all"; year 0 or absent selects the latest year in the data.
func parseFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()
	f := domain.Filter{
		Gender: strings.TrimSpace(q.Get("gender")),
		Role:   strings.TrimSpace(q.Get("role")),
	}
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 0 {
			return f, fmt.Errorf("ano inválido: %q", v)
		}
		f.Year = y
	}
	return f.Normalize(), nil
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	renderStatus(w, r, http.StatusOK, c)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
