package main

import (
	"errors"
	"net/http"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	tempmailbox "github.com/tempmailbox/client-go"
	"github.com/tempmailbox/client-go/generators"
)

type routerConfig struct {
	Client         *tempmailbox.Client
	Logger         *zap.Logger
	AllowedOrigins []string
}

func newRouter(cfg routerConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))

	corsConfig := gincors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	h := &handler{client: cfg.Client, logger: cfg.Logger}

	router.GET("/healthz", h.health)

	api := router.Group("/api")
	{
		api.GET("/domains", h.domains)
		api.POST("/mailbox", h.createMailbox)
		api.GET("/mailbox/:token/messages", h.messages)
		api.DELETE("/mailbox/:token/messages", h.purgeMailbox)
		api.DELETE("/messages/:id", h.deleteMessage)
		api.GET("/messages/:id/attachments", h.attachments)

		gen := api.Group("/generate")
		{
			gen.GET("/phone", h.generatePhone)
			gen.GET("/address", h.generateAddress)
			gen.GET("/card", h.generateCard)
		}
	}

	return router
}

// requestLogger logs one line per request with method, path, status,
// and latency.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

type handler struct {
	client *tempmailbox.Client
	logger *zap.Logger
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// domains never fails: on upstream errors it serves the built-in
// fallback list so the frontend always has something to offer.
func (h *handler) domains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"domains": h.client.DomainsOrDefault(c.Request.Context()),
	})
}

type createMailboxRequest struct {
	Username string `json:"username"`
}

func (h *handler) createMailbox(c *gin.Context) {
	var req createMailboxRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	var session *tempmailbox.MailboxSession
	if req.Username != "" {
		session = h.client.CreateMailboxWithName(c.Request.Context(), req.Username)
	} else {
		session = h.client.CreateMailbox(c.Request.Context())
	}

	c.JSON(http.StatusCreated, gin.H{
		"address": session.Address(),
		"token":   session.Token(),
	})
}

func (h *handler) messages(c *gin.Context) {
	messages, err := h.client.Messages(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	if messages == nil {
		messages = []tempmailbox.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *handler) purgeMailbox(c *gin.Context) {
	deleted, err := h.client.PurgeMailbox(c.Request.Context(), c.Param("token"))
	switch {
	case errors.Is(err, tempmailbox.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
	case errors.Is(err, tempmailbox.ErrPurgeIncomplete):
		c.JSON(http.StatusOK, gin.H{"deleted": deleted, "complete": false})
	case err != nil:
		h.upstreamError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"deleted": deleted, "complete": true})
	}
}

func (h *handler) deleteMessage(c *gin.Context) {
	err := h.client.DeleteMessage(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, tempmailbox.ErrInvalidMessageID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
	case err != nil:
		h.upstreamError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func (h *handler) attachments(c *gin.Context) {
	attachments, err := h.client.Attachments(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, tempmailbox.ErrInvalidMessageID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
	case err != nil:
		h.upstreamError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"attachments": attachments})
	}
}

func (h *handler) generatePhone(c *gin.Context) {
	country := c.DefaultQuery("country", "US")
	c.JSON(http.StatusOK, gin.H{
		"country": country,
		"phone":   generators.Phone(country),
	})
}

func (h *handler) generateAddress(c *gin.Context) {
	country := c.DefaultQuery("country", "US")
	addr := generators.NewAddress(country)
	c.JSON(http.StatusOK, gin.H{
		"country":   country,
		"address":   addr,
		"formatted": addr.String(),
	})
}

func (h *handler) generateCard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"card": generators.NewCreditCard()})
}

func (h *handler) upstreamError(c *gin.Context, err error) {
	h.logger.Warn("upstream call failed", zap.Error(err))

	var apiErr *tempmailbox.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
}
