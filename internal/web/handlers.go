// ABOUTME: HTTP handlers for submitting, sampling, and listing messages
// ABOUTME: Thin wrappers that call the store and render templates

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// dateLayout formats the submission date shown back to the submitter
const dateLayout = "2006-01-02"

// handleIndex serves the submit form on GET and stores a submission on POST
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.render(w, pageSubmit, submitData{Title: s.opts.Title})
	case http.MethodPost:
		s.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	message := r.PostFormValue("message")
	handle := r.PostFormValue("handle")

	if s.isResubmission(message, handle) {
		s.logger.Info("ignored repeated submission", "handle", handle, "request_id", RequestID(r.Context()))
		s.render(w, pageSubmit, submitData{Title: s.opts.Title, Thanks: s.thanks(handle)})
		return
	}

	result, err := s.store.Insert(r.Context(), message, handle)
	if err != nil {
		// Nothing was stored, so a retry must not count as a repeat
		s.forgetSubmission(message, handle)
		s.logger.Error("failed to store message", "error", err, "request_id", RequestID(r.Context()))
		http.Error(w, "Failed to store message", http.StatusInternalServerError)
		return
	}

	data := submitData{Title: s.opts.Title}
	if result.Skipped() {
		data.Prompt = true
	} else {
		data.Thanks = s.thanks(handle)
		s.logger.Info("message stored", "id", result.ID, "request_id", RequestID(r.Context()))
	}

	s.render(w, pageSubmit, data)
}

// isResubmission reports whether a complete submission repeats one seen within the guard window
func (s *Server) isResubmission(message, handle string) bool {
	if s.opts.Resubmit == nil || message == "" || handle == "" {
		return false
	}
	return s.opts.Resubmit.Repeat(message, handle)
}

func (s *Server) forgetSubmission(message, handle string) {
	if s.opts.Resubmit != nil {
		s.opts.Resubmit.Forget(message, handle)
	}
}

func (s *Server) thanks(handle string) string {
	return fmt.Sprintf("'%s' at %s", handle, s.now().Format(dateLayout))
}

// handleView renders a random sample of messages
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	samples, err := s.store.SampleRandom(r.Context(), s.opts.SampleSize)
	if err != nil {
		s.logger.Error("failed to sample messages", "error", err, "request_id", RequestID(r.Context()))
		http.Error(w, "Failed to load messages", http.StatusInternalServerError)
		return
	}

	s.render(w, pageView, viewData{Title: s.opts.Title, Samples: samples})
}

// handleBank renders every stored message
func (s *Server) handleBank(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.AllMessages(r.Context())
	if err != nil {
		s.logger.Error("failed to list messages", "error", err, "request_id", RequestID(r.Context()))
		http.Error(w, "Failed to load messages", http.StatusInternalServerError)
		return
	}

	s.render(w, pageBank, bankData{Title: s.opts.Title, Messages: messages})
}

func (s *Server) handleDog(w http.ResponseWriter, r *http.Request) {
	s.render(w, pagePage, pageData{Title: "My dog", Content: s.dogPage})
}

// healthResponse is the JSON body of GET /health
type healthResponse struct {
	Status   string `json:"status"`
	Messages int    `json:"messages"`
	Error    string `json:"error,omitempty"`
}

// handleHealth reports whether the store answers queries
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK

	count, err := s.store.Count(r.Context())
	if err != nil {
		s.logger.Warn("health check failed", "error", err)
		resp = healthResponse{Status: "unavailable", Error: err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		resp.Messages = count
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Debug("failed to write health response", "error", err)
	}
}
