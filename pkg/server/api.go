package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/vango-dev/formguard/internal/errors"
	"github.com/vango-dev/formguard/pkg/form"
	"github.com/vango-dev/formguard/pkg/render"
	"github.com/vango-dev/formguard/pkg/rules"
	"github.com/vango-dev/formguard/pkg/vdom"
)

// ValidateRequest is the body of POST /api/validate and POST /api/report.
type ValidateRequest struct {
	// HTML is the document holding the form.
	HTML string `json:"html"`

	// Selector finds the form. Default: the server's DefaultSelector.
	Selector string `json:"selector,omitempty"`

	// Values are assigned to text-like controls, selects and textareas.
	Values map[string]string `json:"values,omitempty"`

	// Checked lists the option values to check per radio or checkbox name.
	Checked map[string][]string `json:"checked,omitempty"`

	// Files lists selected file names per file input.
	Files map[string][]string `json:"files,omitempty"`

	// Fields restricts validation to these names. Empty validates the
	// whole form.
	Fields []string `json:"fields,omitempty"`

	// Source names the document in reports.
	Source string `json:"source,omitempty"`
}

// FieldState is the validation state of one field name.
type FieldState struct {
	Name    string             `json:"name"`
	Kind    string             `json:"kind"`
	Value   rules.Value        `json:"value"`
	Skipped bool               `json:"skipped"`
	Error   *rules.ErrorDetail `json:"error,omitempty"`
}

// ValidateResponse is the body returned by POST /api/validate.
type ValidateResponse struct {
	Valid  bool                         `json:"valid"`
	Errors map[string]rules.ErrorDetail `json:"errors"`
	Fields []FieldState                 `json:"fields"`
	HTML   string                       `json:"html"`
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	if id := chimw.GetReqID(r.Context()); id != "" {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

// decodeRequest reads a ValidateRequest within the configured read limit.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*ValidateRequest, error) {
	body := http.MaxBytesReader(w, r.Body, s.config.ReadLimit)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req ValidateRequest
	if err := dec.Decode(&req); err != nil {
		return nil, errors.New("F060").Wrap(err)
	}
	return &req, nil
}

// loadForm parses the request document, binds the form and applies the
// requested assignments.
func (s *Server) loadForm(req *ValidateRequest, logger *slog.Logger) (*form.Form, error) {
	doc, err := vdom.ParseString(req.HTML)
	if err != nil {
		return nil, errors.New("F040").Wrap(err)
	}
	f, err := s.newForm(doc, req.Selector, logger)
	if err != nil {
		return nil, err
	}
	ApplyAssignments(f, req.Values, req.Checked, req.Files)
	return f, nil
}

// ApplyAssignments stages values, checks options and attaches files.
// Unknown names are ignored.
func ApplyAssignments(f *form.Form, values map[string]string, checked, files map[string][]string) {
	f.Update(values)
	for name, opts := range checked {
		for _, v := range opts {
			f.SetChecked(name, v, true)
		}
	}
	for name, list := range files {
		f.SetFiles(name, rules.FileNames(list))
	}
}

// runValidation validates the requested fields, or the whole form.
func runValidation(r *http.Request, f *form.Form, fields []string) (bool, error) {
	if len(fields) > 0 {
		f.Trigger(fields...)
		return f.IsValid(), nil
	}
	return f.ValidateContext(r.Context())
}

// FieldStates reports one entry per field name in document order.
func FieldStates(f *form.Form) []FieldState {
	errs := f.Errors()
	var states []FieldState
	index := make(map[string]int)

	for _, fd := range f.Fields() {
		if fd.Name == "" {
			continue
		}
		if i, ok := index[fd.Name]; ok {
			states[i].Skipped = states[i].Skipped && fd.Skipped()
			continue
		}
		value, _ := f.GetValue(fd.Name)
		st := FieldState{
			Name:    fd.Name,
			Kind:    fd.Kind.String(),
			Value:   value,
			Skipped: fd.Skipped(),
		}
		if e, ok := errs[fd.Name]; ok {
			st.Error = &e
		}
		index[fd.Name] = len(states)
		states = append(states, st)
	}
	return states
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	req, err := s.decodeRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := s.loadForm(req, logger)
	if err != nil {
		writeError(w, err)
		return
	}

	valid, err := runValidation(r, f, req.Fields)
	if err != nil {
		logger.Warn("validation interrupted", "error", err)
		return
	}

	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(f.Root())
	if err != nil {
		writeError(w, errors.New("F081").Wrap(err))
		return
	}

	logger.Debug("form validated", "selector", f.Selector(), "valid", valid, "errors", len(f.Errors()))
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:  valid,
		Errors: f.Errors(),
		Fields: FieldStates(f),
		HTML:   html,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	req, err := s.decodeRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := s.loadForm(req, logger)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := runValidation(r, f, req.Fields); err != nil {
		logger.Warn("validation interrupted", "error", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sr := render.NewStreamingRenderer(w, render.RendererConfig{})
	if err := sr.RenderReport(ReportFor(f, req.Source)); err != nil {
		logger.Error("report render failed", "error", err)
	}
}

// ReportFor builds a render.Report from the form's surfaced errors in
// document order.
func ReportFor(f *form.Form, source string) render.Report {
	rep := render.Report{Source: source, Form: f.Root()}
	for _, st := range FieldStates(f) {
		if st.Error == nil {
			continue
		}
		rep.Entries = append(rep.Entries, render.ReportEntry{
			Field:   st.Name,
			Rule:    st.Error.Rule,
			Message: st.Error.Message,
		})
	}
	return rep
}
