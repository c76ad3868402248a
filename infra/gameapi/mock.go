package gameapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kilianp07/kitflow/core/model"
)

// MockServer is an in-process scoring server used for tests and local
// runs. Flight updates are scripted per hour; the game ends once the
// script is exhausted.
type MockServer struct {
	mu        sync.Mutex
	apiKey    string
	sessionID string
	ended     bool
	round     int
	script    [][]model.FlightEvent
	Requests  []RoundRequest
}

// NewMockServer creates a mock with the given API key and per-hour script.
func NewMockServer(apiKey string, script [][]model.FlightEvent) *MockServer {
	return &MockServer{apiKey: apiKey, script: script}
}

// Handler returns the HTTP routes of the mock.
func (m *MockServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/session/start", m.handleStart)
	r.Post("/api/v1/session/end", m.handleEnd)
	r.Post("/api/v1/play/round", m.handlePlay)
	return r
}

func (m *MockServer) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("API-KEY") != m.apiKey {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
		return
	}
	m.mu.Lock()
	m.sessionID = uuid.NewString()
	m.ended = false
	m.round = 0
	m.Requests = nil
	m.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"sessionId": m.sessionID})
}

func (m *MockServer) handleEnd(w http.ResponseWriter, r *http.Request) {
	if !m.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	m.mu.Lock()
	m.ended = true
	m.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (m *MockServer) handlePlay(w http.ResponseWriter, r *http.Request) {
	if !m.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended || m.round >= len(m.script) {
		http.Error(w, "Session already ended", http.StatusBadRequest)
		return
	}
	var req RoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.Requests = append(m.Requests, req)
	updates := m.script[m.round]
	m.round++
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(RoundResponse{
		Day:           req.Day,
		Hour:          req.Hour,
		TotalCost:     float64(m.round) * 100,
		FlightUpdates: updates,
	})
}

func (m *MockServer) authorized(r *http.Request) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return r.Header.Get("API-KEY") == m.apiKey && r.Header.Get("SESSION-ID") == m.sessionID
}
