package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-complexity-inspector/internal/config"
	apperrors "go-complexity-inspector/internal/errors"
	"go-complexity-inspector/internal/logger"
	"go-complexity-inspector/internal/service"
	"go-complexity-inspector/pkg/export"
	"go-complexity-inspector/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Version is reported by /health
const Version = "1.0.0"

func NewHandler(svc service.ComplexityService, cfg *config.Config) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/stats", stats(svc))

	measure := r.Group("/measure")
	measure.POST("", measureURL(svc, cfg))
	measure.POST("/upload", measureUpload(svc, cfg))
	if cfg.AzureEnabled() {
		measure.POST("/blob", measureBlob(svc, cfg))
	}

	history := r.Group("/history")
	history.GET("", listHistory(svc))
	history.DELETE("", clearHistory(svc))
	history.GET("/export", exportHistory(svc))
	history.GET("/:id", getHistoryEntry(svc))
	history.GET("/:id/export", exportHistoryEntry(svc))

	return r
}

func measureURL(svc service.ComplexityService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logRequest(c, "Processing measurement request")

		var req models.MeasureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if c.Query("detailed") == "true" {
			req.Detailed = true
		}

		var (
			resp interface{}
			err  error
		)
		if req.Detailed {
			resp, err = svc.MeasureDetailed(ctx, req.URL)
		} else {
			resp, err = svc.MeasureURL(ctx, req.URL)
		}
		if err != nil {
			respondAppError(c, "measurement failed", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func measureUpload(svc service.ComplexityService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logRequest(c, "Processing upload measurement request")

		header, err := c.FormFile("image")
		if err != nil {
			respondError(c, http.StatusBadRequest, "multipart field \"image\" is required", err)
			return
		}
		file, err := header.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "cannot read upload", err)
			return
		}
		defer file.Close()

		resp, err := svc.MeasureUpload(ctx, header.Filename, file)
		if err != nil {
			respondAppError(c, "measurement failed", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func measureBlob(svc service.ComplexityService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logRequest(c, "Processing blob measurement request")

		var req models.BlobMeasureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		resp, err := svc.MeasureBlob(ctx, req.BlobURL)
		if err != nil {
			respondAppError(c, "measurement failed", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func listHistory(svc service.ComplexityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := svc.History(c.Request.Context())
		if err != nil {
			respondAppError(c, "history unavailable", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func getHistoryEntry(svc service.ComplexityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, err := svc.HistoryEntry(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondAppError(c, "history lookup failed", err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func clearHistory(svc service.ComplexityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ClearHistory(c.Request.Context()); err != nil {
			respondAppError(c, "history clear failed", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func exportHistory(svc service.ComplexityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := svc.ExportHistoryCSV(c.Request.Context(), &buf); err != nil {
			respondAppError(c, "export failed", err)
			return
		}
		sendCSV(c, export.HistoryFileName(time.Now()), buf.Bytes())
	}
}

func exportHistoryEntry(svc service.ComplexityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		name, err := svc.ExportEntryCSV(c.Request.Context(), c.Param("id"), &buf)
		if err != nil {
			respondAppError(c, "export failed", err)
			return
		}
		sendCSV(c, name, buf.Bytes())
	}
}

func stats(svc service.ComplexityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Stats(c.Request.Context()))
	}
}

func sendCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func logRequest(c *gin.Context, msg string) {
	logger.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"ip":         c.ClientIP(),
	}).Info(msg)
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondAppError(c *gin.Context, message string, err error) {
	respondError(c, determineStatusCode(err), message, err)
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
