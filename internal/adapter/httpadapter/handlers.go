package httpadapter

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/berlin-dashboard/internal/pipeline"
	"github.com/couchcryptid/berlin-dashboard/internal/presentation"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.RawQuery, s.defaults)
	if err != nil {
		s.writePage(w, http.StatusBadRequest, newPage(sel, nil, err.Error()))
		return
	}

	d, err := s.runner.Run(r.Context(), sel)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("dashboard page failed", "status", status, "error", err)
		s.writePage(w, status, newPage(sel, nil, pipeline.Describe(err)))
		return
	}

	p := newPage(d.Selection, &d, "")
	for i := range p.Sections {
		sec := &p.Sections[i]
		chart, ok := d.Chart(sec.Kind)
		if !ok {
			continue
		}
		img, err := s.renderChart(chart)
		if err != nil {
			s.logger.Error("render chart failed", "kind", sec.Kind, "error", err)
			sec.ChartError = err.Error()
			continue
		}
		sec.Image = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(img))
	}
	s.writePage(w, http.StatusOK, p)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r.URL.RawQuery, s.defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.runner.Run(r.Context(), sel)
	if err != nil {
		writeError(w, statusFor(err), pipeline.Describe(err))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, d)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, ok := presentation.ParseKind(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown chart "+r.PathValue("kind"))
		return
	}

	sel, err := ParseSelection(r.URL.RawQuery, s.defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.runner.Run(r.Context(), sel)
	if err != nil {
		writeError(w, statusFor(err), pipeline.Describe(err))
		return
	}

	chart, _ := d.Chart(kind)
	img, err := s.renderChart(chart)
	if err != nil {
		s.logger.Error("render chart failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (s *Server) renderChart(spec presentation.ChartSpec) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, spec); err != nil {
		return nil, err
	}
	s.metrics.ChartsRendered.WithLabelValues(string(spec.Kind)).Inc()
	return buf.Bytes(), nil
}

func (s *Server) writePage(w http.ResponseWriter, status int, p page) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		s.logger.Error("execute page template failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// statusFor maps a run error to an HTTP status: 400 for a bad selection,
// 502 when the upstream feed failed or was malformed.
func statusFor(err error) int {
	switch pipeline.Outcome(err) {
	case "selection_error":
		return http.StatusBadRequest
	case "fetch_error", "parse_error":
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
