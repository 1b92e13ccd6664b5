// Package server exposes the chat assistant over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nubank/chat-assistant/internal/chat"
	"github.com/nubank/chat-assistant/internal/upload"
)

const WelcomeMessage = "Welcome to the Web-based Chat Assistant API"

// Backends lists the model ids a client may choose from.
type Backends interface {
	Models() []string
}

type Options struct {
	Chat       *chat.Service
	Uploads    *upload.Store
	Backends   Backends
	Generator  string
	CORSOrigin string
	Logger     *slog.Logger
}

type Server struct {
	engine *gin.Engine
	opts   Options
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	s := &Server{opts: opts}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := gin.New()
	r.Use(RequestLogger(s.opts.Logger))
	r.Use(Recovery())
	r.Use(CORS(s.opts.CORSOrigin))

	r.GET("/", s.welcome)
	r.GET("/health", s.health)
	r.GET("/models", s.models)

	r.POST("/chat/", s.chat)
	r.GET("/chat/:user_id/history", s.history)

	r.POST("/uploadfile/", s.uploadFile)
	r.GET("/uploadfile/", s.listUploads)

	s.engine = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}
