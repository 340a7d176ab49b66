package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/modhub/internal/cache"
	"github.com/jon4hz/modhub/internal/scheduler"
)

type AdminHandler struct {
	scheduler *scheduler.Scheduler
	cache     *cache.CatalogCache
}

// NewAdmin creates the admin handler. Both the scheduler and the cache may be nil.
func NewAdmin(sched *scheduler.Scheduler, catalogCache *cache.CatalogCache) *AdminHandler {
	return &AdminHandler{
		scheduler: sched,
		cache:     catalogCache,
	}
}

// GetJobs returns the background jobs and the statistics of the catalog cache.
func (h *AdminHandler) GetJobs(c *gin.Context) {
	jobs := []scheduler.JobInfo{}
	if h.scheduler != nil {
		jobs = h.scheduler.GetJobs()
		slices.SortFunc(jobs, func(a, b scheduler.JobInfo) int { return strings.Compare(a.ID, b.ID) })
	}

	resp := gin.H{
		"success": true,
		"jobs":    jobs,
	}
	if h.cache != nil {
		resp["cache"] = gin.H{
			"type":  h.cache.Type(),
			"stats": h.cache.GetStats(),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RunJob triggers a job immediately.
func (h *AdminHandler) RunJob(c *gin.Context) {
	id := c.Param("id")
	if h.scheduler == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "scheduler is not running"})
		return
	}
	if _, ok := h.scheduler.GetJob(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "job not found"})
		return
	}
	if err := h.scheduler.RunJobNow(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job triggered successfully",
	})
}
