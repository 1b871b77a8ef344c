package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"monitor-insights-go/internal/aggregator"
	"monitor-insights-go/internal/dataset"
	"monitor-insights-go/internal/export"
	"monitor-insights-go/internal/processor"
	"monitor-insights-go/internal/report"
	"monitor-insights-go/internal/types"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// readUpload returns the workbook bytes of a multipart "file" field or of
// the raw request body.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("%w: multipart field \"file\": %v", errBadQuery, err)
		}
		defer file.Close()
		return io.ReadAll(file)
	}
	return io.ReadAll(r.Body)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "upload")
	reqLog.Info("upload received")

	data, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, r, "upload", err)
		return
	}
	if len(data) == 0 {
		s.fail(w, r, "upload", fmt.Errorf("%w: empty upload", errBadQuery))
		return
	}

	start := time.Now()
	ds, err := s.cache.Load(data)
	if err != nil {
		s.fail(w, r, "upload", err)
		return
	}
	reqLog.WithField("dataset_id", ds.ID).
		WithField("records", len(ds.Records)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("upload processed")
	if err := writeJSON(w, http.StatusOK, dataset.Summarize(ds)); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.cache.Current()
	if err != nil {
		s.fail(w, r, "dataset", err)
		return
	}
	_ = writeJSON(w, http.StatusOK, dataset.Summarize(ds))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "dashboard")
	ds, spec, err := s.current(r)
	if err != nil {
		s.fail(w, r, "dashboard", err)
		return
	}
	d := processor.BuildDashboard(ds, spec, s.now())
	reqLog.WithField("records", d.Records).
		WithField("warnings", len(d.Warnings)).
		WithField("duration_ms", d.DurationMs).
		Info("dashboard built")
	if err := writeJSON(w, http.StatusOK, d); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}

type agentsResponse struct {
	Agents []string                `json:"agents"`
	Stats  []aggregator.GroupStats `json:"stats"`
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	ds, spec, err := s.current(r)
	if err != nil {
		s.fail(w, r, "agents", err)
		return
	}
	view := dataset.Filter(ds, spec)
	_ = writeJSON(w, http.StatusOK, agentsResponse{
		Agents: aggregator.Agents(view),
		Stats:  aggregator.Group(view, aggregator.ByAgent),
	})
}

func (s *Server) handleAgentDetail(w http.ResponseWriter, r *http.Request) {
	agent, err := agentParam(r)
	if err != nil {
		s.fail(w, r, "agent_detail", err)
		return
	}
	ds, spec, err := s.current(r)
	if err != nil {
		s.fail(w, r, "agent_detail", err)
		return
	}
	v, err := processor.BuildAgentView(ds, spec, agent, s.now())
	if err != nil {
		s.fail(w, r, "agent_detail", err)
		return
	}
	_ = writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "export")
	ds, spec, err := s.current(r)
	if err != nil {
		s.fail(w, r, "export", err)
		return
	}
	view := dataset.Filter(ds, spec)
	var buf bytes.Buffer
	if err := export.WriteDataset(&buf, view); err != nil {
		s.fail(w, r, "export", err)
		return
	}
	reqLog.WithField("records", len(view.Records)).WithField("bytes", buf.Len()).Info("dataset exported")
	s.attach(w, export.FileName(export.DatasetPrefix, s.now()), buf.Bytes())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "report")
	agent, err := agentParam(r)
	if err != nil {
		s.fail(w, r, "report", err)
		return
	}
	ds, spec, err := s.current(r)
	if err != nil {
		s.fail(w, r, "report", err)
		return
	}
	spec.Agents = nil
	now := s.now()
	rep, err := report.Build(dataset.Filter(ds, spec), agent, s.cfg.EvaluatorName, now)
	if err != nil {
		s.fail(w, r, "report", err)
		return
	}
	reqLog = reqLog.WithField("agent", agent).WithField("report_id", rep.ID)

	if r.URL.Query().Get("format") == "json" {
		_ = writeJSON(w, http.StatusOK, rep)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteAgentReport(&buf, rep); err != nil {
		s.fail(w, r, "report", err)
		return
	}
	reqLog.Info("report generated")
	s.attach(w, export.ReportFileName(agent, now), buf.Bytes())
}

// current returns the cached dataset and the filter of the request.
func (s *Server) current(r *http.Request) (*types.Dataset, dataset.FilterSpec, error) {
	spec, err := parseFilter(r)
	if err != nil {
		return nil, spec, err
	}
	ds, err := s.cache.Current()
	if err != nil {
		return nil, spec, err
	}
	return ds, spec, nil
}

func agentParam(r *http.Request) (string, error) {
	agent := strings.TrimSpace(r.URL.Query().Get("agent"))
	if agent == "" {
		return "", fmt.Errorf("%w: missing agent", errBadQuery)
	}
	return agent, nil
}

func (s *Server) attach(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
