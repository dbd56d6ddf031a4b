package server

import (
	"log"
	"net/http"
	"time"

	"draw-guess/internal/config"
	"draw-guess/internal/game"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	sessions *game.Directory
	registry *game.Registry
	hub      *wsHub
	words    game.WordSource
	cfg      config.Config
	db       *gorm.DB
	events   *eventRecorder
}

// New builds a coordinator. conn may be nil, in which case no activity log
// is written.
func New(conn *gorm.DB, cfg config.Config, words game.WordSource) *Server {
	registerValidators()
	s := &Server{
		sessions: game.NewDirectory(defaultsFromConfig(cfg)),
		registry: game.NewRegistry(),
		hub:      newWSHub(),
		words:    words,
		cfg:      cfg,
		db:       conn,
		events:   newEventRecorder(conn),
	}
	s.sessions.OnRemove(func(session *game.Session) {
		log.Printf("session removed session=%s", session.Name())
		s.events.Record(session.Name(), "", eventSessionRemoved, EventPayload{Reason: "empty"})
	})
	return s
}

func defaultsFromConfig(cfg config.Config) game.Defaults {
	defaults := game.DefaultSettings()
	if cfg.MaxMembers > 0 {
		defaults.MaxMembers = cfg.MaxMembers
	}
	if cfg.PointsForSuccess >= 0 {
		defaults.PointsForSuccess = cfg.PointsForSuccess
	}
	if cfg.PointsForFailure >= 0 {
		defaults.PointsForFailure = cfg.PointsForFailure
	}
	if cfg.CanvasPoints > 0 {
		defaults.CanvasPoints = cfg.CanvasPoints
	}
	if cfg.TurnSeconds > 0 {
		defaults.TurnDuration = time.Duration(cfg.TurnSeconds) * time.Second
	}
	return defaults
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", s.handleHealth)
	api := router.Group("/api")
	api.GET("/sessions", s.handleListSessions)
	api.GET("/sessions/:name", s.handleGetSession)
	router.GET("/ws", s.handleWebsocket)
	return router
}

// Close flushes the activity log.
func (s *Server) Close() {
	s.events.Close()
}
