package server

import (
	"net/http"

	"draw-guess/internal/game"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"sessions":    s.sessions.Count(),
		"connections": s.hub.Count(),
	})
}

func (s *Server) handleListSessions(c *gin.Context) {
	pageSize, pageIndex := parsePagination(c, defaultPageSize, maxPageSize)
	sessions := s.sessions.List(pageSize, pageIndex)
	c.JSON(http.StatusOK, gin.H{
		"sessions":   sessions,
		"pagination": buildPageData(pageSize, pageIndex, s.sessions.Count()),
	})
}

func (s *Server) handleGetSession(c *gin.Context) {
	var req sessionNameRequest
	if !bindURI(c, &req) {
		return
	}
	var snapshot game.Snapshot
	err := s.withSession(req.Name, func(session *game.Session) error {
		snapshot = session.Snapshot()
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
