package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rezonia/evatr-go/internal/model"
)

// Service is the upstream the gateway forwards to. *client.Client satisfies it.
type Service interface {
	VerifyVatID(ctx context.Context, query model.ConfirmationQuery) (*model.ConfirmationResult, error)
	StatusMessages(ctx context.Context) ([]model.StatusMessage, error)
	MemberStates(ctx context.Context) ([]model.MemberState, error)
}

// Config holds server configuration
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration
	Debug           bool
}

// Server exposes the eVatR client as a JSON API
type Server struct {
	config  *Config
	router  *gin.Engine
	service Service
	logger  *logrus.Logger
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(config *Config, service Service, logger *logrus.Logger) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.UpstreamTimeout == 0 {
		config.UpstreamTimeout = 30 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	metrics := NewMetrics("evatr_gateway")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(logger))
	router.Use(metrics.Middleware())

	s := &Server{
		config:  config,
		router:  router,
		service: service,
		logger:  logger,
		metrics: metrics,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/verify", s.handleVerify)
		v1.GET("/status-messages", s.handleStatusMessages)
		v1.GET("/member-states", s.handleMemberStates)
	}
}

// Run starts the HTTP server and blocks until ctx is done or the listener fails.
// On cancellation in-flight requests get ShutdownTimeout to complete.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.WithError(err).Error("server forced to shutdown")
		return err
	}

	s.logger.Info("server exited")
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleVerify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid request body: " + err.Error(),
			RequestID: c.GetString(requestIDKey),
		})
		return
	}

	query, err := req.toQuery()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     err.Error(),
			RequestID: c.GetString(requestIDKey),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.UpstreamTimeout)
	defer cancel()

	result, err := s.service.VerifyVatID(ctx, query)
	s.metrics.ObserveUpstream("verify", err)
	if err != nil {
		s.writeUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{
		ConfirmationResult: result,
		Valid:              result.IsValid(),
		StatusName:         result.Status.Name(),
	})
}

func (s *Server) handleStatusMessages(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.UpstreamTimeout)
	defer cancel()

	messages, err := s.service.StatusMessages(ctx)
	s.metrics.ObserveUpstream("status_messages", err)
	if err != nil {
		s.writeUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusMessagesResponse{Messages: messages})
}

func (s *Server) handleMemberStates(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.UpstreamTimeout)
	defer cancel()

	states, err := s.service.MemberStates(ctx)
	s.metrics.ObserveUpstream("member_states", err)
	if err != nil {
		s.writeUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, MemberStatesResponse{MemberStates: states})
}

// writeUpstreamError mirrors the upstream HTTP code when there is one, 502 otherwise
func (s *Server) writeUpstreamError(c *gin.Context, err error) {
	resp := ErrorResponse{
		Error:     err.Error(),
		RequestID: c.GetString(requestIDKey),
	}
	code := http.StatusBadGateway

	var e *model.Error
	if errors.As(err, &e) {
		resp.Error = e.Message
		resp.Kind = string(e.Kind)
		resp.HTTPCode = e.HTTPCode
		if e.Status != nil {
			resp.Status = string(*e.Status)
		}
		if e.HTTPCode >= 400 {
			code = e.HTTPCode
		}
	}

	var decErr *model.DecodeError
	if errors.As(err, &decErr) {
		resp.Kind = "decode"
	}

	c.JSON(code, resp)
}

// toQuery builds a simple query, or a qualified one when any qualifying field is set
func (r *VerifyRequest) toQuery() (model.ConfirmationQuery, error) {
	if r.CompanyName == nil && r.City == nil && r.Street == nil && r.PostalCode == nil {
		return model.NewSimpleQuery(r.OwnVatID, r.ForeignVatID), nil
	}
	if r.CompanyName == nil || r.City == nil {
		return model.ConfirmationQuery{}, errors.New("companyName and city are required for a qualified query")
	}

	var opts []model.QueryOption
	if r.Street != nil {
		opts = append(opts, model.WithStreet(*r.Street))
	}
	if r.PostalCode != nil {
		opts = append(opts, model.WithPostalCode(*r.PostalCode))
	}
	return model.NewQualifiedQuery(r.OwnVatID, r.ForeignVatID, *r.CompanyName, *r.City, opts...), nil
}
