// Package server exposes an environment over HTTP and streams viewer snapshots over websockets
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/marl-env/multiagent"
	"github.com/zeu5/marl-env/types"
)

// Snapshotter is implemented by environments that can describe their world for a viewer
type Snapshotter interface {
	Snapshot() *multiagent.Snapshot
}

// StepRequest carries one raw action per agent
type StepRequest struct {
	Actions []types.Action `json:"actions"`
}

// Server serializes all access to the environment, only one request steps it at a time
type Server struct {
	Addr   string
	ctx    context.Context
	server *http.Server
	router *gin.Engine

	lock   *sync.Mutex
	env    types.Environment
	reset  bool
	viewer *Viewer
}

func NewServer(ctx context.Context, addr string, env types.Environment) *Server {
	s := &Server{
		Addr:   addr,
		ctx:    ctx,
		lock:   new(sync.Mutex),
		env:    env,
		viewer: NewViewer(),
	}

	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/spaces", s.handleSpaces)
	r.POST("/reset", s.handleReset)
	r.POST("/step", s.handleStep)
	r.GET("/snapshot", s.handleSnapshot)
	r.GET("/viewer", s.handleViewer)
	s.router = r
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens in the background until the context is cancelled
func (s *Server) Start() {
	go func() {
		log.Printf("serving environment on %s", s.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server stopped: %s", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
		s.viewer.Close()
	}()
}

// statusOf maps the error taxonomy to http status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, types.ErrActionShape):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrConfiguration):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleSpaces(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"n":                  s.env.N(),
		"action_spaces":      s.env.ActionSpace(),
		"observation_spaces": s.env.ObservationSpace(),
	})
}

func (s *Server) handleReset(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	obs, err := s.env.Reset()
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	s.reset = true
	s.broadcast()
	c.JSON(http.StatusOK, gin.H{"observations": obs})
}

func (s *Server) handleStep(c *gin.Context) {
	req := StepRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.reset {
		c.JSON(http.StatusConflict, gin.H{"error": "environment has not been reset"})
		return
	}
	transition, err := s.env.Step(req.Actions)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	s.broadcast()
	c.JSON(http.StatusOK, transition)
}

func (s *Server) handleSnapshot(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	snapshotter, ok := s.env.(Snapshotter)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "environment has no viewer"})
		return
	}
	c.JSON(http.StatusOK, snapshotter.Snapshot())
}

func (s *Server) handleViewer(c *gin.Context) {
	// held until the viewer is registered so that no broadcast is missed
	s.lock.Lock()
	defer s.lock.Unlock()
	var current *multiagent.Snapshot
	if snapshotter, ok := s.env.(Snapshotter); ok && s.reset {
		current = snapshotter.Snapshot()
	}
	s.viewer.Serve(c.Writer, c.Request, current)
}

// broadcast the current snapshot, called with the lock held
func (s *Server) broadcast() {
	snapshotter, ok := s.env.(Snapshotter)
	if !ok || s.viewer.Len() == 0 {
		return
	}
	s.viewer.Broadcast(snapshotter.Snapshot())
}
