package api

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"property-estimator/internal/dataset"
	"property-estimator/internal/form"
	"property-estimator/internal/logger"
	"property-estimator/internal/models"
	"property-estimator/internal/service"
)

const (
	PageTitle      = "Real Estate Price Predictor"
	MaxRequestSize = 1 << 20
)

//go:embed templates/index.html
var templateFS embed.FS

type Handler struct {
	Builder *service.Builder
	Log     *logger.Logger

	mu      sync.RWMutex
	session *service.Session
	failure *service.Failure

	page *template.Template
}

func NewHandler(builder *service.Builder, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		Builder: builder,
		Log:     log,
		page:    template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
}

// Reload builds a fresh session and returns it. On a fatal failure the
// previous session is discarded and every page shows the failure instead of
// the form.
func (h *Handler) Reload(ctx context.Context) (*service.Session, error) {
	s, err := h.Builder.Build(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		f, ok := service.AsFailure(err)
		if !ok {
			f = &service.Failure{Tier: service.Fatal, Stage: service.StageLoad, Err: err}
		}
		h.session, h.failure = nil, f
		return nil, f
	}
	h.session, h.failure = s, nil
	return s, nil
}

func (h *Handler) current() (*service.Session, *service.Failure) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.session == nil && h.failure == nil {
		return nil, &service.Failure{Tier: service.Fatal, Stage: service.StageLoad, Message: "Model is not loaded yet."}
	}
	return h.session, h.failure
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/", h.Submit)
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/features", h.GetFeatures)
		r.Post("/predict", h.Predict)
		r.Get("/model", h.GetModel)
		r.Get("/dataset", h.GetDataset)
		r.Post("/reload", h.ReloadSession)
	})
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// ============================================================================
// HTML form
// ============================================================================

type optionView struct {
	Label   string
	Checked bool
}

type fieldView struct {
	Name    string
	Control string
	Min     string
	Max     string
	Step    string
	Value   string
	Options []optionView
	Error   string
}

type pageData struct {
	Title   string
	Fatal   string
	Issues  []string
	Columns [2][]fieldView
	Result  string
	Error   string
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	s, failure := h.current()
	if failure != nil {
		h.renderFatal(w, failure)
		return
	}

	defaults := s.Layout.Defaults()
	values := make(map[string]string, len(defaults))
	for _, f := range s.Layout.Fields {
		values[f.Name] = f.Widget.Format(defaults[f.Name])
	}
	h.render(w, http.StatusOK, newPage(s, values, nil))
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	s, failure := h.current()
	if failure != nil {
		h.renderFatal(w, failure)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	values := make(map[string]string, len(s.Layout.Fields))
	_, est, issues, err := s.Submit(func(name string) (string, bool) {
		v, ok := r.PostForm[name]
		if !ok || len(v) == 0 {
			return "", false
		}
		values[name] = v[0]
		return v[0], true
	})

	page := newPage(s, values, issues)
	status := http.StatusOK
	if err != nil {
		f, _ := service.AsFailure(err)
		page.Error = f.UserMessage()
		status = http.StatusUnprocessableEntity
	} else {
		page.Result = est.Message()
	}
	h.render(w, status, page)
}

func newPage(s *service.Session, values map[string]string, issues []form.FieldIssue) pageData {
	page := pageData{Title: PageTitle}
	for _, f := range s.FieldFailures {
		page.Issues = append(page.Issues, f.UserMessage())
	}

	fieldErrors := make(map[string]string, len(issues))
	for _, issue := range issues {
		fieldErrors[issue.Name] = issue.Err.Error()
	}

	for i, col := range s.Layout.Columns() {
		for _, f := range col {
			view := fieldView{
				Name:    f.Name,
				Control: string(f.Widget.Control),
				Step:    formatNumber(f.Widget.Step),
				Value:   values[f.Name],
				Error:   fieldErrors[f.Name],
			}
			if view.Step == "0" {
				view.Step = "any"
			}
			if f.Widget.Min != nil {
				view.Min = formatNumber(*f.Widget.Min)
			}
			if f.Widget.Max != nil {
				view.Max = formatNumber(*f.Widget.Max)
			}
			for _, o := range f.Widget.Options {
				view.Options = append(view.Options, optionView{Label: o.Label, Checked: strings.EqualFold(o.Label, view.Value)})
			}
			page.Columns[i] = append(page.Columns[i], view)
		}
	}
	return page
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (h *Handler) renderFatal(w http.ResponseWriter, f *service.Failure) {
	h.render(w, http.StatusServiceUnavailable, pageData{Title: PageTitle, Fatal: f.UserMessage()})
}

func (h *Handler) render(w http.ResponseWriter, status int, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.page.Execute(w, page); err != nil {
		h.Log.Exception(err, "Rendering page failed.")
	}
}

// ============================================================================
// JSON API
// ============================================================================

func (h *Handler) GetFeatures(w http.ResponseWriter, r *http.Request) {
	s, failure := h.current()
	if failure != nil {
		writeFailure(w, failure)
		return
	}

	resp := models.FormResponse{SessionID: s.ID.String(), Fields: []models.FieldResponse{}}
	for _, f := range s.Layout.Fields {
		resp.Fields = append(resp.Fields, models.FieldResponse{
			Name:   f.Name,
			Kind:   f.Kind.String(),
			Column: f.Index % 2,
			Widget: f.Widget,
		})
	}
	for _, f := range s.FieldFailures {
		resp.Issues = append(resp.Issues, f.UserMessage())
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	s, failure := h.current()
	if failure != nil {
		writeFailure(w, failure)
		return
	}

	var req models.PredictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestSize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid JSON"})
		return
	}

	if issues := s.Layout.Validate(req.Features); len(issues) > 0 {
		resp := models.ErrorResponse{
			Error:       "Invalid input values",
			Stage:       string(service.StagePredict),
			Tier:        service.Recoverable.String(),
			FieldErrors: make(map[string]string, len(issues)),
		}
		for _, issue := range issues {
			h.Log.Warn("Input field issue with '%s': %v", issue.Name, issue.Err)
			resp.FieldErrors[issue.Name] = issue.Err.Error()
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	est, err := s.Predict(form.Record(req.Features))
	if err != nil {
		f, _ := service.AsFailure(err)
		writeFailure(w, f)
		return
	}

	writeJSON(w, http.StatusOK, models.PredictResponse{
		SessionID: s.ID.String(),
		Price:     est.Price,
		Value:     est.Value,
		Display:   est.Display,
		Message:   est.Message(),
	})
}

func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	s, failure := h.current()
	if failure != nil {
		writeFailure(w, failure)
		return
	}
	writeJSON(w, http.StatusOK, modelResponse(s))
}

func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	s, failure := h.current()
	if failure != nil {
		writeFailure(w, failure)
		return
	}

	writeJSON(w, http.StatusOK, models.DatasetResponse{
		Source:  s.Origin,
		Rows:    len(s.Frame.Rows),
		Columns: dataset.Describe(s.Frame),
	})
}

func (h *Handler) ReloadSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.Reload(r.Context())
	if err != nil {
		f, _ := service.AsFailure(err)
		writeFailure(w, f)
		return
	}
	writeJSON(w, http.StatusOK, modelResponse(s))
}

func modelResponse(s *service.Session) models.ModelResponse {
	coef := s.Model.Coef()
	coefficients := make(map[string]float64, len(coef))
	for i, name := range s.Features {
		coefficients[name] = coef[i]
	}
	dropped := s.Dropped
	if dropped == nil {
		dropped = []string{}
	}
	return models.ModelResponse{
		SessionID:    s.ID.String(),
		Source:       s.Origin,
		Target:       s.Target,
		Rows:         len(s.Frame.Rows),
		Features:     s.Features,
		Dropped:      dropped,
		Coefficients: coefficients,
		Intercept:    s.Model.Intercept(),
		R2:           s.R2,
		TrainedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, f *service.Failure) {
	status := http.StatusUnprocessableEntity
	if f.Fatal() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, models.ErrorResponse{
		Error: f.UserMessage(),
		Stage: string(f.Stage),
		Tier:  f.Tier.String(),
	})
}
