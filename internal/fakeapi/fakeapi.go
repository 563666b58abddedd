// Package fakeapi is an in-memory stand-in for the marketplace backend.
// It serves every endpoint in the gateway table with the same envelopes
// and payload keys, and records the requests it saw. Tests only.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sorenmh/homeservices-admin/internal/gateway"
)

// Request is a request the server received
type Request struct {
	Endpoint string
	Method   string
	Path     string
	Query    url.Values
	Body     map[string]any
	RawBody  []byte
}

type failure struct {
	status  int
	message string
}

// Server is the fake backend
type Server struct {
	mu       sync.Mutex
	router   *gin.Engine
	records  map[string][]map[string]any
	failures map[string]failure
	requests []Request
	hold     map[string]chan struct{}
	token    string
	now      func() time.Time
}

// New creates a fake backend with every endpoint registered
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		router:   gin.New(),
		records:  make(map[string][]map[string]any),
		failures: make(map[string]failure),
		hold:     make(map[string]chan struct{}),
		now:      time.Now,
	}

	s.router.Use(s.auth)
	for _, ep := range gateway.Endpoints() {
		s.router.Handle(ep.Method, ep.Path, s.handle(ep))
	}

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// RequireToken makes every endpoint demand "Authorization: Bearer <token>"
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Server) auth(c *gin.Context) {
	s.mu.Lock()
	want := s.token
	s.mu.Unlock()
	if want == "" {
		c.Next()
		return
	}

	got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || got == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header is required"})
		return
	}
	if got != want {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
		return
	}
	c.Next()
}

// Seed appends records to a collection ("categories", "plans", ...).
// Records without an id get one.
func (s *Server) Seed(collection string, records ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		raw, err := json.Marshal(r)
		if err != nil {
			panic(err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			panic(err)
		}
		if id, _ := m["id"].(string); id == "" {
			m["id"] = uuid.New().String()
		}
		s.records[collection] = append(s.records[collection], m)
	}
}

// Records returns a copy of a collection
func (s *Server) Records(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.records[collection]...)
}

// Reject makes an endpoint answer 200 with success=false
func (s *Server) Reject(endpoint, message string) {
	s.FailWithStatus(endpoint, http.StatusOK, message)
}

// FailWithStatus makes an endpoint answer status with success=false
func (s *Server) FailWithStatus(endpoint string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[endpoint] = failure{status: status, message: message}
}

// Recover clears a failure set by Reject or FailWithStatus
func (s *Server) Recover(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, endpoint)
}

// Hold blocks requests to endpoint until the returned func is called
func (s *Server) Hold(endpoint string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold[endpoint] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.hold, endpoint)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns the requests seen so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request to endpoint
func (s *Server) LastRequest(endpoint string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Endpoint == endpoint {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

func (s *Server) handle(ep gateway.Endpoint) gin.HandlerFunc {
	collection, action, _ := strings.Cut(ep.Name, ".")

	return func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		req := Request{
			Endpoint: ep.Name,
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			Query:    c.Request.URL.Query(),
			RawBody:  raw,
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &req.Body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid JSON body"})
				return
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		held := s.hold[ep.Name]
		s.mu.Unlock()

		if held != nil {
			select {
			case <-held:
			case <-c.Request.Context().Done():
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if f, ok := s.failures[ep.Name]; ok {
			c.JSON(f.status, gin.H{"success": false, "message": f.message})
			return
		}

		switch action {
		case "list":
			s.list(c, collection, ep.Key)
		case "create":
			s.create(c, collection, ep.Key, req.Body)
		case "update":
			s.update(c, collection, ep.Key, req.Body)
		case "delete":
			s.remove(c, collection, ep.Key)
		case "complete":
			s.complete(c, collection, ep.Key)
		default:
			c.JSON(http.StatusNotImplemented, gin.H{"success": false, "message": "not implemented"})
		}
	}
}

func respond(c *gin.Context, status int, key gateway.PayloadKey, payload any, message string) {
	body := gin.H{"success": true, string(key): payload}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "record not found"})
}

func (s *Server) list(c *gin.Context, collection string, key gateway.PayloadKey) {
	all := s.records[collection]
	items := append([]map[string]any{}, all...)

	limitStr := c.Query("limit")
	if limitStr == "" {
		respond(c, http.StatusOK, key, items, "")
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(limitStr)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = len(items)
	}
	start := min(offset, len(items))
	end := min(offset+limit, len(items))

	body := gin.H{"success": true, "total": len(all)}
	body[string(key)] = items[start:end]
	c.JSON(http.StatusOK, body)
}

func (s *Server) create(c *gin.Context, collection string, key gateway.PayloadKey, body map[string]any) {
	if body == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "request body is required"})
		return
	}

	record := make(map[string]any, len(body)+2)
	for k, v := range body {
		record[k] = v
	}
	record["id"] = uuid.New().String()
	record["createdAt"] = s.now().UTC().Format(time.RFC3339)

	s.records[collection] = append(s.records[collection], record)
	respond(c, http.StatusCreated, key, record, "created successfully")
}

func (s *Server) indexOf(collection, id string) int {
	for i, r := range s.records[collection] {
		if r["id"] == id {
			return i
		}
	}
	return -1
}

func (s *Server) update(c *gin.Context, collection string, key gateway.PayloadKey, body map[string]any) {
	i := s.indexOf(collection, c.Param("id"))
	if i < 0 {
		notFound(c)
		return
	}

	old := s.records[collection][i]
	record := make(map[string]any, len(body)+3)
	for k, v := range body {
		record[k] = v
	}
	record["id"] = old["id"]
	if created, ok := old["createdAt"]; ok {
		record["createdAt"] = created
	}
	record["updatedAt"] = s.now().UTC().Format(time.RFC3339)

	s.records[collection][i] = record
	respond(c, http.StatusOK, key, record, "updated successfully")
}

func (s *Server) remove(c *gin.Context, collection string, key gateway.PayloadKey) {
	id := c.Param("id")
	i := s.indexOf(collection, id)
	if i < 0 {
		notFound(c)
		return
	}

	recs := s.records[collection]
	s.records[collection] = append(recs[:i:i], recs[i+1:]...)
	respond(c, http.StatusOK, key, gin.H{"id": id}, "deleted successfully")
}

func (s *Server) complete(c *gin.Context, collection string, key gateway.PayloadKey) {
	i := s.indexOf(collection, c.Param("id"))
	if i < 0 {
		notFound(c)
		return
	}

	s.records[collection][i]["status"] = "completed"
	respond(c, http.StatusOK, key, s.records[collection][i], "marked as completed")
}
