// Package web serves the Lights Out grid as an HTML page.
//
// Each browser gets its own session, identified by a cookie. Cells are
// buttons inside small forms, so the page works without JavaScript; a JSON
// API mirrors the same operations.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/lightsout/internal/board"
	"github.com/san-kum/lightsout/internal/config"
	"github.com/san-kum/lightsout/internal/game"
	"github.com/san-kum/lightsout/internal/solver"
	"github.com/san-kum/lightsout/internal/storage"
)

const (
	cookieName         = "lightsout_session"
	defaultMaxSessions = 1024
)

// errStaleSession is returned when a toggle arrives without a live session.
// A fresh game is started and the click is dropped, since the player never
// saw the new grid.
var errStaleSession = errors.New("no game in progress, a new one was started")

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Server struct {
	cfg    config.Config
	store  *storage.Store
	logger *slog.Logger

	mu          sync.Mutex
	sessions    map[string]*game.Session
	maxSessions int
	now         func() time.Time

	solve  func(board.Grid) ([]board.Coord, error)
	router *gin.Engine
}

// NewServer builds the router. store may be nil to skip recording wins and
// logger may be nil to use slog.Default().
func NewServer(cfg config.Config, store *storage.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:         cfg,
		store:       store,
		logger:      logger,
		sessions:    make(map[string]*game.Session),
		maxSessions: defaultMaxSessions,
		now:         time.Now,
		solve:       solver.Solve,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/", s.handleIndex)
	r.GET("/hint", s.handleHint)
	r.POST("/toggle/:row/:col", s.handleToggleForm)
	r.POST("/new", s.handleNewForm)

	api := r.Group("/api")
	api.GET("/board", s.handleBoard)
	api.POST("/toggle", s.handleToggleAPI)
	api.POST("/new", s.handleNewAPI)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving lights out", slog.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)))
	}
}

// session returns the caller's session, creating one (and setting the
// cookie) when the cookie is missing or unknown. The bool reports whether a
// session was created. Callers hold s.mu.
func (s *Server) session(c *gin.Context) (*game.Session, bool, error) {
	if id, err := c.Cookie(cookieName); err == nil {
		if sess, ok := s.sessions[id]; ok {
			return sess, false, nil
		}
	}
	sess, err := s.replaceSession(c)
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// replaceSession starts a fresh game for the caller. Callers hold s.mu.
func (s *Server) replaceSession(c *gin.Context) (*game.Session, error) {
	if id, err := c.Cookie(cookieName); err == nil {
		delete(s.sessions, id)
	}
	sess, err := game.NewSeeded(s.cfg, game.WithClock(s.now))
	if err != nil {
		return nil, err
	}
	s.evict()
	s.sessions[sess.ID()] = sess
	activeSessions.Set(float64(len(s.sessions)))
	gamesStarted.Inc()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, sess.ID(), 0, "/", "", false, true)
	s.logger.Info("new game",
		slog.String("session", sess.ID()),
		slog.Int("height", s.cfg.Height),
		slog.Int("width", s.cfg.Width),
		slog.Int64("seed", sess.Seed()))
	return sess, nil
}

// evict drops the oldest sessions once the table is full. Callers hold s.mu.
func (s *Server) evict() {
	if len(s.sessions) < s.maxSessions {
		return
	}
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.sessions[ids[i]].StartedAt().Before(s.sessions[ids[j]].StartedAt())
	})
	for _, id := range ids[:len(ids)-s.maxSessions+1] {
		delete(s.sessions, id)
	}
}

// toggle applies one activation under the lock so no reader sees a grid
// between two flips.
func (s *Server) toggle(c *gin.Context, at board.Coord) (BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, created, err := s.session(c)
	if err != nil {
		return BoardView{}, err
	}
	if created {
		togglesTotal.WithLabelValues(outcome(errStaleSession)).Inc()
		return newBoardView(sess, nil), errStaleSession
	}
	if err := sess.Toggle(at); err != nil {
		togglesTotal.WithLabelValues(outcome(err)).Inc()
		return newBoardView(sess, nil), err
	}
	togglesTotal.WithLabelValues("ok").Inc()
	if sess.State() == game.Won {
		s.recordWin(sess)
	}
	return newBoardView(sess, nil), nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, game.ErrGameOver):
		return "game_over"
	case errors.Is(err, game.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, errStaleSession):
		return "stale_session"
	}
	return "error"
}

func (s *Server) recordWin(sess *game.Session) {
	gamesWon.Inc()
	movesPerWin.Observe(float64(sess.Moves()))
	s.logger.Info("game won", slog.String("session", sess.ID()), slog.Int("moves", sess.Moves()))
	if s.store == nil {
		return
	}
	if _, err := s.store.Save("web", sess.Result()); err != nil {
		s.logger.Warn("record win", slog.String("session", sess.ID()), slog.String("error", err.Error()))
	}
}

// view snapshots the caller's board under the lock. The hint is solved
// after the lock is released so one slow solve does not stall other players;
// the grid is an immutable value, so the snapshot stays consistent.
func (s *Server) view(c *gin.Context, withHint bool) (BoardView, error) {
	s.mu.Lock()
	sess, _, err := s.session(c)
	if err != nil {
		s.mu.Unlock()
		return BoardView{}, err
	}
	g := sess.Grid()
	v := newBoardView(sess, nil)
	s.mu.Unlock()

	if !withHint || v.Won {
		return v, nil
	}
	presses, err := s.solve(g)
	if err != nil || len(presses) == 0 {
		return v, nil
	}
	h := presses[0]
	v.Rows[h.Row][h.Col].Hint = true
	return v, nil
}

func (s *Server) fresh(c *gin.Context) (BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.replaceSession(c)
	if err != nil {
		return BoardView{}, err
	}
	return newBoardView(sess, nil), nil
}

func (s *Server) handleIndex(c *gin.Context) {
	v, err := s.view(c, false)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.HTML(http.StatusOK, "board.html", v)
}

func (s *Server) handleHint(c *gin.Context) {
	v, err := s.view(c, true)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.HTML(http.StatusOK, "board.html", v)
}

func (s *Server) handleToggleForm(c *gin.Context) {
	row, errRow := strconv.Atoi(c.Param("row"))
	col, errCol := strconv.Atoi(c.Param("col"))
	if errRow != nil || errCol != nil {
		c.String(http.StatusBadRequest, "bad coordinate")
		return
	}

	v, err := s.toggle(c, board.Coord{Row: row, Col: col})
	switch {
	case errors.Is(err, game.ErrGameOver):
		c.HTML(http.StatusConflict, "board.html", v)
		return
	case errors.Is(err, errStaleSession):
		c.Redirect(http.StatusSeeOther, "/")
		return
	case errors.Is(err, game.ErrOutOfBounds):
		c.String(http.StatusBadRequest, err.Error())
		return
	case err != nil:
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleNewForm(c *gin.Context) {
	if _, err := s.fresh(c); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

type toggleRequest struct {
	Row *int `json:"row" binding:"required,min=0"`
	Col *int `json:"col" binding:"required,min=0"`
}

func (s *Server) handleBoard(c *gin.Context) {
	v, err := s.view(c, c.Query("hint") != "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleToggleAPI(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := s.toggle(c, board.Coord{Row: *req.Row, Col: *req.Col})
	switch {
	case errors.Is(err, game.ErrGameOver), errors.Is(err, errStaleSession):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "board": v})
	case errors.Is(err, game.ErrOutOfBounds):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, v)
	}
}

func (s *Server) handleNewAPI(c *gin.Context) {
	v, err := s.fresh(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}
