package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketship-ai/scriptrunner/internal/runner"
)

const maxBodyBytes = 1 << 20

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type scriptListResponse struct {
	Scripts []string `json:"scripts"`
}

type executeResponse struct {
	Success    bool    `json:"success"`
	Output     string  `json:"output"`
	Error      *string `json:"error"`
	ExitCode   int     `json:"exit_code"`
	ScriptName string  `json:"script_name"`
}

type validateResponse struct {
	Valid      bool   `json:"valid"`
	Message    string `json:"message"`
	ScriptName string `json:"script_name"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Version: s.version})
}

func (s *Server) handleListScripts(w http.ResponseWriter, r *http.Request) {
	scripts := s.catalog.List()
	sort.Strings(scripts)
	writeJSON(w, http.StatusOK, scriptListResponse{Scripts: scripts})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return
	}
	payload, err := decodeExecuteRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := runner.Request{Name: name, Env: payload.EnvVars, Args: payload.Args}
	if res, ok := s.engine.Check(req); !ok {
		s.writeRejection(w, res)
		return
	}

	if s.slots != nil {
		if err := s.slots.Acquire(r.Context(), 1); err != nil {
			writeError(w, http.StatusServiceUnavailable, "no execution slot available")
			return
		}
		defer s.slots.Release(1)
	}

	res := s.execute(r, req)

	switch res.Kind {
	case runner.KindNotFound, runner.KindPreconditionFailed:
		s.writeRejection(w, res)
		return
	}

	resp := executeResponse{
		Success:    res.Success,
		Output:     res.Output,
		ExitCode:   res.ExitCode,
		ScriptName: name,
	}
	if res.Error != "" {
		resp.Error = &res.Error
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) execute(r *http.Request, req runner.Request) runner.Result {
	s.metrics.ExecutionsInFlight.Inc()
	defer s.metrics.ExecutionsInFlight.Dec()

	res := s.engine.Execute(r.Context(), req)
	s.metrics.observeExecution(res)
	return res
}

func (s *Server) writeRejection(w http.ResponseWriter, res runner.Result) {
	switch res.Kind {
	case runner.KindNotFound:
		writeError(w, http.StatusNotFound, res.Error)
	case runner.KindPreconditionFailed:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be provided in env_vars or as environment variable", s.engine.CredentialKey()))
	default:
		writeError(w, http.StatusInternalServerError, res.Error)
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	start := time.Now()
	res := s.validator.Validate(name)
	s.metrics.ValidationsTotal.WithLabelValues(kindLabel(res.Kind)).Inc()
	s.logger.Debug("validated script", "script", name, "valid", res.Valid, "duration", time.Since(start))

	switch res.Kind {
	case runner.KindNotFound:
		writeError(w, http.StatusNotFound, res.Message)
		return
	case runner.KindIOError:
		writeError(w, http.StatusInternalServerError, res.Message)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: res.Valid, Message: res.Message, ScriptName: name})
}
