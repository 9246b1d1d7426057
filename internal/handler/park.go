package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/multipark/backoffice/internal/repository"
)

// parkSnapshotKey is the Redis hash the sync job writes park rows into.
// The analytics tooling reads the snapshot from there instead of querying
// the operational database.
const parkSnapshotKey = "parks:snapshot"

// ParkHandler lists parks and runs the park snapshot sync.
type ParkHandler struct {
	Parks *repository.ParkRepo
	Redis *redis.Client
}

func NewParkHandler(parks *repository.ParkRepo, rdb *redis.Client) *ParkHandler {
	if parks == nil {
		panic("nil repository passed to NewParkHandler")
	}
	return &ParkHandler{Parks: parks, Redis: rdb}
}

// List handles GET /v1/parks and returns all active parks.
func (h *ParkHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	parks, err := h.Parks.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    parks,
		"count":   len(parks),
	})
}

// Sync handles POST /v1/parks/sync (ADMIN only). It snapshots every park
// into a Redis hash for the analytics side. Parks that fail to marshal or
// store are skipped and the rest continue, mirroring how uploads tolerate
// partial failure.
func (h *ParkHandler) Sync(c echo.Context) error {
	if h.Redis == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "sync target unavailable"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	parks, err := h.Parks.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	synced := 0
	for _, p := range parks {
		body, err := json.Marshal(p)
		if err != nil {
			log.Errorf("[ParkSync] marshal %s: %v", p.ID, err)
			continue
		}
		if err := h.Redis.HSet(ctx, parkSnapshotKey, p.ID, body).Err(); err != nil {
			log.Errorf("[ParkSync] store %s: %v", p.ID, err)
			continue
		}
		synced++
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_ = h.Redis.Set(ctx, parkSnapshotKey+":synced_at", now, 0).Err()

	log.Infof("[ParkSync] synced %d/%d parks", synced, len(parks))
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"synced":    synced,
		"total":     len(parks),
		"timestamp": now,
	})
}
