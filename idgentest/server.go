// Package idgentest provides a fake identifier-generation service for tests
// and local development.
package idgentest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-io/idgen"
	"github.com/google/uuid"
)

// DefaultPath is the route the fake service answers on.
const DefaultPath = "/egov-idgen/id/_generate"

// Server answers IdGenerationRequests with ids drawn from a Sequence.
type Server struct {
	router chi.Router
	seq    Sequence
	now    func() time.Time

	path       string
	failStatus int
	failBody   string
	middleware []func(http.Handler) http.Handler

	mu    sync.Mutex
	calls []idgen.IdGenerationRequest
}

// Option configures a Server.
type Option func(*Server)

// WithPath changes the route.
func WithPath(path string) Option {
	return func(s *Server) {
		s.path = path
	}
}

// WithFailure makes every call answer status with body, verbatim.
func WithFailure(status int, body string) Option {
	return func(s *Server) {
		s.failStatus, s.failBody = status, body
	}
}

// WithClock fixes the time used by [cy:...] tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithMiddleware adds router middleware, e.g. middleware.Logger.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// NewServer builds the handler. A nil seq uses a fresh MemorySequence.
func NewServer(seq Sequence, opts ...Option) *Server {
	if seq == nil {
		seq = NewMemorySequence()
	}
	s := &Server{seq: seq, now: time.Now, path: DefaultPath}
	for _, o := range opts {
		o(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.middleware...)
	r.Post(s.path, s.generate)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs the server on a loopback port. The returned server must be closed.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s)
}

// Calls returns the decoded requests received so far.
func (s *Server) Calls() []idgen.IdGenerationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]idgen.IdGenerationRequest(nil), s.calls...)
}

type errorBody struct {
	ResponseInfo *idgen.ResponseInfo `json:"ResponseInfo"`
	Errors       []errorItem         `json:"Errors"`
}

type errorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req idgen.IdGenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Errors: []errorItem{{"INVALID_REQUEST", err.Error()}}})
		return
	}
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	if s.failStatus != 0 {
		w.WriteHeader(s.failStatus)
		_, _ = w.Write([]byte(s.failBody))
		return
	}

	for _, item := range req.IdRequests {
		if item.TenantId == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{Errors: []errorItem{{"INVALID_TENANT", "tenantId is required"}}})
			return
		}
	}

	now := s.now()
	resp := idgen.IdGenerationResponse{
		ResponseInfo: &idgen.ResponseInfo{
			ResMsgId: uuid.NewString(),
			Ts:       now.UnixMilli(),
			Status:   "SUCCESSFUL",
		},
		IdResponses: make([]idgen.IdResponse, 0, len(req.IdRequests)),
	}
	if req.RequestInfo != nil {
		resp.ResponseInfo.ApiId = req.RequestInfo.ApiId
		resp.ResponseInfo.Ver = req.RequestInfo.Ver
		resp.ResponseInfo.MsgId = req.RequestInfo.MsgId
	}
	for _, item := range req.IdRequests {
		n, err := s.seq.Next(r.Context(), item.TenantId+":"+item.IdName, 1)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody{Errors: []errorItem{{"SEQUENCE_FAILED", err.Error()}}})
			return
		}
		resp.IdResponses = append(resp.IdResponses, idgen.IdResponse{Id: Expand(item.Format, n, now)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
