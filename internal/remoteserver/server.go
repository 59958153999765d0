// Package remoteserver serves a stand-in for the remote quote source so quoted
// can be exercised offline. It speaks the same shape as the public endpoint:
// GET returns a JSON array of posts, POST accepts one record.
package remoteserver

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

// Post is one served record.
type Post struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Server holds the served posts and the records pushed to it.
type Server struct {
	mu      sync.RWMutex
	posts   []Post
	pushed  []json.RawMessage
	status  int
	rawBody []byte
	delay   time.Duration
	logger  *zap.Logger
}

// New returns a server seeded with posts. A nil logger disables request logs.
func New(posts []Post, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{posts: append([]Post(nil), posts...), logger: logger}
}

// DefaultPosts is the seed served when no file is given.
func DefaultPosts() []Post {
	titles := []string{
		"Simplicity is prerequisite for reliability.",
		"Make it work, make it right, make it fast.",
		"Clear is better than clever.",
		"A little copying is better than a little dependency.",
		"Don't communicate by sharing memory; share memory by communicating.",
		"Errors are values.",
		"The bigger the interface, the weaker the abstraction.",
	}
	posts := make([]Post, len(titles))
	for i, title := range titles {
		posts[i] = Post{ID: int64(i + 1), UserID: 1, Title: title}
	}
	return posts
}

// LoadPosts reads a JSON array of posts from path.
func LoadPosts(path string) ([]Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("path", path))
	}
	var posts []Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, goerr.Wrap(err, "failed to decode seed file", goerr.V("path", path))
	}
	return posts, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.listPosts)
		r.Post("/", s.createPost)
	})
	return r
}

// SetPosts replaces the served posts.
func (s *Server) SetPosts(posts []Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]Post(nil), posts...)
}

// FailWith makes GET respond with status. Zero restores normal responses.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// ServeRaw makes GET respond with body verbatim. Nil restores normal responses.
func (s *Server) ServeRaw(body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawBody = body
}

// SetDelay holds every GET for d before answering.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Pushed returns the raw bodies received by POST, oldest first.
func (s *Server) Pushed() []json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]json.RawMessage(nil), s.pushed...)
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	status, raw, delay := s.status, s.rawBody, s.delay
	posts := append([]Post(nil), s.posts...)
	s.mu.RUnlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if raw != nil {
		_, _ = w.Write(raw)
		return
	}
	if posts == nil {
		posts = []Post{}
	}
	_ = json.NewEncoder(w).Encode(posts)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.pushed = append(s.pushed, body)
	id := int64(len(s.posts) + len(s.pushed))
	s.mu.Unlock()

	var echo map[string]any
	if err := json.Unmarshal(body, &echo); err != nil || echo == nil {
		echo = map[string]any{}
	}
	echo["id"] = id

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(echo)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("remote request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
