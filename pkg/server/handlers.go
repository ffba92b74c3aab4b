package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/png2svg/pkg/buildinfo"
	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
)

// Response headers set on successful conversions.
const (
	headerCache   = "X-Cache"
	headerRegions = "X-Regions"
	headerWidth   = "X-Image-Width"
	headerHeight  = "X-Image-Height"
)

type errorResponse struct {
	Code  pkgerr.Code `json:"code"`
	Error string      `json:"error"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

// handleConvert reads a raw image body and responds with the SVG document.
// The query parameter keep_every_point=true keeps collinear lattice points.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	opts := s.cfg.Options
	opts.Output = ""
	if v := r.URL.Query().Get("keep_every_point"); v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, pkgerr.New(pkgerr.ErrCodeInvalidInput, "invalid keep_every_point: %q", v))
			return
		}
		opts.KeepEveryPoint = keep
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = pkgerr.New(pkgerr.ErrCodeTooLarge, "upload exceeds %d bytes", tooLarge.Limit)
		} else {
			err = pkgerr.Wrap(pkgerr.ErrCodeInvalidInput, err, "read request body")
		}
		s.writeError(w, r, err)
		return
	}
	if len(data) == 0 {
		s.writeError(w, r, pkgerr.New(pkgerr.ErrCodeInvalidInput, "empty request body"))
		return
	}

	conv, err := s.runner.ConvertBytes(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cache := "MISS"
	if conv.CacheHit {
		cache = "HIT"
	}
	h := w.Header()
	h.Set("Content-Type", "image/svg+xml")
	h.Set("Content-Length", strconv.Itoa(len(conv.SVG)))
	h.Set(headerCache, cache)
	h.Set(headerRegions, strconv.Itoa(conv.Stats.Regions))
	h.Set(headerWidth, strconv.Itoa(conv.Stats.Width))
	h.Set(headerHeight, strconv.Itoa(conv.Stats.Height))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(conv.SVG)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch pkgerr.GetCode(err) {
	case pkgerr.ErrCodeInvalidInput, pkgerr.ErrCodeInvalidPath,
		pkgerr.ErrCodeInvalidExtension, pkgerr.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case pkgerr.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case pkgerr.ErrCodeDecode:
		return http.StatusUnprocessableEntity
	case pkgerr.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := pkgerr.GetCode(err)
	if code == "" {
		code = pkgerr.ErrCodeInternal
	}
	logger := s.logger.With("request_id", requestIDFrom(r.Context()))
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	} else {
		logger.Debug("request rejected", "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: pkgerr.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
