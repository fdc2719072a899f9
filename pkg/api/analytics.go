package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/paveg/devcard/pkg/analytics"
	"github.com/paveg/devcard/pkg/ratelimit"
)

// maxTelemetryBody bounds a telemetry request body.
const maxTelemetryBody = 64 << 10

func decodeTelemetry(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxTelemetryBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode telemetry: %w", err)
	}
	return nil
}

func (s *Server) telemetryResult(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if err != nil {
		s.log(r).Warn().Err(err).Str("kind", kind).Msg("Telemetry rejected")
		s.respondJSON(w, r, map[string]bool{"success": false}, http.StatusInternalServerError)
		return
	}
	s.respondJSON(w, r, map[string]bool{"success": true}, http.StatusOK)
}

func nowMillis(ts int64) int64 {
	if ts == 0 {
		return time.Now().UnixMilli()
	}
	return ts
}

func (s *Server) handleWebVital(w http.ResponseWriter, r *http.Request) {
	var v analytics.WebVital
	err := decodeTelemetry(w, r, &v)
	if err == nil {
		v.Timestamp = nowMillis(v.Timestamp)
		if v.UserAgent == "" {
			v.UserAgent = r.UserAgent()
		}
		v.Country = r.Header.Get("CF-IPCountry")
		err = s.analytics.RecordWebVital(r.Context(), v)
	}
	s.telemetryResult(w, r, "web_vital", err)
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	var report analytics.ErrorReport
	err := decodeTelemetry(w, r, &report)
	if err == nil {
		report.Timestamp = nowMillis(report.Timestamp)
		if report.UserAgent == "" {
			report.UserAgent = r.UserAgent()
		}
		report.IP = ratelimit.ClientIP(r)
		report.Country = r.Header.Get("CF-IPCountry")
		err = s.analytics.RecordError(r.Context(), report)
	}
	s.telemetryResult(w, r, "error", err)
}

func (s *Server) handleCustomMetric(w http.ResponseWriter, r *http.Request) {
	var m analytics.CustomMetric
	err := decodeTelemetry(w, r, &m)
	if err == nil {
		m.Timestamp = nowMillis(m.Timestamp)
		err = s.analytics.RecordCustomMetric(r.Context(), m)
	}
	s.telemetryResult(w, r, "custom", err)
}
