package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/catalog"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/ledger"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// Handler holds the bot's shared components and provides HTTP handlers
type Handler struct {
	catalog  *catalog.Store
	sessions *session.Store
	ledger   *ledger.Writer
}

// NewHandler creates a new handler instance
func NewHandler(cat *catalog.Store, sessions *session.Store, lw *ledger.Writer) *Handler {
	return &Handler{
		catalog:  cat,
		sessions: sessions,
		ledger:   lw,
	}
}

// Health checks readiness: the session store must answer and a catalog
// snapshot must be loaded.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.sessions.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Session store connection failed",
			Message: err.Error(),
		})
		return
	}

	snap := h.catalog.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "order-bot",
		"points":    len(snap.Points),
		"products":  len(snap.Products),
		"timestamp": time.Now().UTC(),
	})
}

// AdminLogin checks the admin password against ADMIN_PASSWORD_HASH and
// issues a signed admin token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
		})
		return
	}

	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	secret := os.Getenv("JWT_SECRET")
	if hash == "" || secret == "" {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Server not configured",
			Message: "Admin credentials are not configured",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "Invalid credentials",
			Message: "The provided password is incorrect",
		})
		return
	}

	token, err := issueAdminToken(secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to issue token",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Login successful",
		Data:    gin.H{"token": token},
	})
}

// GetStatistics returns ledger statistics for the admin dashboard
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.ledger.Statistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to read ledger statistics",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Statistics retrieved successfully",
		Data:    stats,
	})
}

// ReloadCatalog forces a catalog reload outside the refresh schedule
func (h *Handler) ReloadCatalog(c *gin.Context) {
	snap := h.catalog.Reload()
	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Catalog reloaded successfully",
		Data: models.CatalogSummary{
			Points:   len(snap.Points),
			Products: snap.Products,
			LoadedAt: snap.LoadedAt,
		},
	})
}

// GetCatalog returns the active catalog snapshot summary
func (h *Handler) GetCatalog(c *gin.Context) {
	snap := h.catalog.Snapshot()
	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Catalog retrieved successfully",
		Data: models.CatalogSummary{
			Points:   len(snap.Points),
			Products: snap.Products,
			LoadedAt: snap.LoadedAt,
		},
	})
}
