package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mdblog/internal/config"
	"mdblog/internal/constants"
	"mdblog/internal/logger"
)

// SiteMiddleware makes the site settings available to every template.
func SiteMiddleware(site config.SiteConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeySite, site)
		c.Next()
	}
}

// RequestIDMiddleware tags each request with the X-Request-ID header, or a
// generated id when the client sent none.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

func generateRequestID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b[:])
}

// LoggerMiddleware writes one structured log line per request.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
			logger.String("request_id", c.GetString(constants.ContextKeyRequestID)),
		}
		if query != "" {
			fields = append(fields, logger.String("query", query))
		}
		// Static files and health checks are too noisy for info level.
		if strings.HasPrefix(path, "/static/") || path == "/healthz" {
			log.Debug("HTTP request", fields...)
			return
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.Strings("errors", c.Errors.Errors()))
			log.Error("HTTP request with errors", fields...)
			return
		}
		log.Info("HTTP request", fields...)
	}
}

// RecoveryMiddleware turns a panicking handler into a logged 500.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					logger.Any("error", err),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// render is a helper function to render templates with common data.
func render(c *gin.Context, status int, templateName string, data gin.H) {
	if site, exists := c.Get(constants.ContextKeySite); exists {
		if _, ok := data["Site"]; !ok {
			data["Site"] = site
		}
	}
	c.HTML(status, templateName, data)
}
