package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samkirk/gca-bridge/internal/registry"
)

// statusRow is one canonical model's operator-facing health snapshot.
type statusRow struct {
	Model         string `json:"model"`
	BreakerState  string `json:"breaker_state"`
	InCooldown    bool   `json:"in_cooldown"`
	BestAvailable string `json:"best_available"`
}

// status implements the supplemented GET /status management endpoint: per
// model, the advisory circuit-breaker state and the cooldown-aware
// fallback choice a new request would actually be routed to.
func (h *handlers) status(c *gin.Context) {
	now := time.Now()
	ids := registry.ListCanonicalModels()
	rows := make([]statusRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, statusRow{
			Model:         id,
			BreakerState:  h.deps.Fallback.BreakerState(id),
			InCooldown:    h.deps.Cooldown.InCooldown(id, now),
			BestAvailable: h.deps.Fallback.BestAvailable(id),
		})
	}
	c.JSON(http.StatusOK, gin.H{"models": rows})
}
