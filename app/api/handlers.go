package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wallboard/wallboard/app/files"
	"github.com/wallboard/wallboard/app/images"
	"github.com/wallboard/wallboard/app/mensa"
	"github.com/wallboard/wallboard/app/parser"
	"github.com/wallboard/wallboard/app/transport"
)

// GetProposals parses the default configured WebDAV file.
func (h *Handler) GetProposals(c *gin.Context) {
	h.parseFile(c, h.proposalsPath, "")
}

// GetSourceFile parses a source defined in the sources directory.
func (h *Handler) GetSourceFile(c *gin.Context) {
	name := c.Param("name")

	source, err := h.sourcesCache.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Unknown source",
			"message": err.Error(),
		})
		return
	}

	h.parseFile(c, source.Path, source.Format)
}

func (h *Handler) parseFile(c *gin.Context, filePath, formatOverride string) {
	outcome, err := h.filesService.Run(c.Request.Context(), filePath, formatOverride)
	if err != nil {
		h.renderParseFailure(c, filePath, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"file_info": gin.H{
			"path": outcome.FilePath,
			"type": outcome.Format,
			"size": outcome.FileSize,
		},
		"parsing_result": outcome.Result,
		"timestamp":      outcome.ParsedAt.Format(time.RFC3339),
	})
}

func (h *Handler) renderParseFailure(c *gin.Context, filePath string, err error) {
	var formatErr *files.UnsupportedFormatError
	var parseErr *parser.ParseError
	var transportErr *transport.Error

	switch {
	case errors.Is(err, files.ErrEmptyFile):
		c.JSON(http.StatusNotFound, gin.H{
			"success":   false,
			"error":     "File is empty or could not be read",
			"file_path": filePath,
		})

	case errors.As(err, &formatErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":           false,
			"error":             "Unsupported file format",
			"supported_formats": files.SupportedFormats,
			"detected_format":   formatErr.Format,
		})

	case errors.As(err, &transportErr):
		slog.Error("Upstream fetch failed", "path", filePath, "status", transportErr.Status, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Unable to connect to Nextcloud server",
			"message": "Please check Nextcloud credentials and server availability",
		})

	case errors.As(err, &parseErr):
		slog.Error("File parsing failed", "path", filePath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "File parsing failed",
			"message": err.Error(),
		})

	default:
		slog.Error("Unexpected file processing failure", "path", filePath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "File parsing failed",
			"message": err.Error(),
		})
	}
}

// GetParserHealth verifies the Nextcloud connection.
func (h *Handler) GetParserHealth(c *gin.Context) {
	nextcloudOK := true
	if err := h.filesService.Ping(c.Request.Context()); err != nil {
		slog.Warn("Health check - Nextcloud connection failed", "error", err)
		nextcloudOK = false
	}

	status := http.StatusOK
	overall := "healthy"
	if !nextcloudOK {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status": overall,
		"checks": gin.H{
			"nextcloud_connection": nextcloudOK,
			"services_loaded":      true,
			"timestamp":            time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// GetMensa returns the normalized two-day menu.
func (h *Handler) GetMensa(c *gin.Context) {
	menu, err := h.mensaService.GetMenu(c.Request.Context())
	if err != nil {
		h.renderMensaFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         menu,
		"last_updated": time.Now().UTC().Format(time.RFC3339),
	})
}

type itemWithImage struct {
	mensa.Item
	Image *images.Result `json:"image"`
}

type dayWithImages struct {
	Date       string          `json:"datum"`
	DateISO    string          `json:"datum_formatted"`
	Weekday    string          `json:"weekday"`
	IsToday    bool            `json:"is_today"`
	IsTomorrow bool            `json:"is_tomorrow"`
	Items      []itemWithImage `json:"menues"`
}

// GetMensaWithImages returns the menu with each item enriched by a cached
// food image lookup. Image failures degrade to null, never to an error.
func (h *Handler) GetMensaWithImages(c *gin.Context) {
	menu, err := h.mensaService.GetMenu(c.Request.Context())
	if err != nil {
		h.renderMensaFailure(c, err)
		return
	}

	var queries []string
	seen := make(map[string]bool)
	for _, day := range menu.Days {
		for _, item := range day.Items {
			if item.Name != "" && !seen[item.Name] {
				seen[item.Name] = true
				queries = append(queries, item.Name)
			}
		}
	}

	imageResults := h.imagesService.SearchBatch(c.Request.Context(), queries, true)

	days := make([]dayWithImages, 0, len(menu.Days))
	for _, day := range menu.Days {
		enriched := dayWithImages{
			Date:       day.Date,
			DateISO:    day.DateISO,
			Weekday:    day.Weekday,
			IsToday:    day.IsToday,
			IsTomorrow: day.IsTomorrow,
			Items:      make([]itemWithImage, 0, len(day.Items)),
		}
		for _, item := range day.Items {
			enriched.Items = append(enriched.Items, itemWithImage{
				Item:  item,
				Image: imageResults[item.Name],
			})
		}
		days = append(days, enriched)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"mensa_name": menu.MensaName,
			"days":       days,
		},
		"last_updated": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) renderMensaFailure(c *gin.Context, err error) {
	slog.Error("Mensa menu request failed", "error", err)

	status := http.StatusInternalServerError
	var transportErr *transport.Error
	if errors.As(err, &transportErr) {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   "Fehler beim Laden des Speiseplans: " + err.Error(),
		"data":    nil,
	})
}

// GetTasks returns the aggregated board snapshot. The optional boards query
// parameter restricts aggregation to a comma-separated list of board ids.
func (h *Handler) GetTasks(c *gin.Context) {
	var boardIDs []int64
	if raw := c.Query("boards"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Invalid board id",
					"message": part,
				})
				return
			}
			boardIDs = append(boardIDs, id)
		}
	}

	result, err := h.aggregator.AllTasks(c.Request.Context(), boardIDs)
	if err != nil {
		slog.Error("Task aggregation failed", "error", err)

		status := http.StatusInternalServerError
		var transportErr *transport.Error
		if errors.As(err, &transportErr) {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"success": false,
			"error":   "Failed to fetch tasks from Nextcloud Deck",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"boards":      result.Boards,
		"total_cards": result.TotalCards,
		"fetched_at":  result.FetchedAt,
	})
}

// GetNews returns the flattened headline list for the ticker.
func (h *Handler) GetNews(c *gin.Context) {
	if !h.newsService.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "News ticker not configured",
		})
		return
	}

	headlines := h.newsService.Headlines(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"headlines":    headlines,
		"total":        len(headlines),
		"last_updated": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetHealth is the liveness endpoint.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "wallboard-api",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
