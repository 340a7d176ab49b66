package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/cache"
	"github.com/jon4hz/modhub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveAdmin(h *AdminHandler, method, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/jobs", h.GetJobs)
	r.POST("/jobs/:id/run", h.RunJob)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestGetJobs_CacheStats(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCatalogCache(&config.CacheConfig{Type: config.CacheTypeMemory}, time.Minute)
	c.SetMods(ctx, models.ModStatusApproved, []models.Mod{{ID: 1, Title: "Cached"}})
	_, ok := c.GetMods(ctx, models.ModStatusApproved)
	require.True(t, ok)

	w := serveAdmin(NewAdmin(nil, c), http.MethodGet, "/jobs")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool  `json:"success"`
		Jobs    []any `json:"jobs"`
		Cache   struct {
			Type  string `json:"type"`
			Stats []struct {
				CacheName string `json:"cacheName"`
				Hits      int    `json:"Hits"`
			} `json:"stats"`
		} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Jobs)
	assert.Equal(t, "memory", resp.Cache.Type)
	require.Len(t, resp.Cache.Stats, 1)
	assert.Equal(t, "mods", resp.Cache.Stats[0].CacheName)
	assert.GreaterOrEqual(t, resp.Cache.Stats[0].Hits, 1)
}

func TestGetJobs_WithoutCache(t *testing.T) {
	w := serveAdmin(NewAdmin(nil, nil), http.MethodGet, "/jobs")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"jobs":[]}`, w.Body.String())
}

func TestRunJob_NoScheduler(t *testing.T) {
	w := serveAdmin(NewAdmin(nil, nil), http.MethodPost, "/jobs/catalog-refresh/run")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "scheduler is not running")
}
