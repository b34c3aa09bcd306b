package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chulcheck/chulcheck/attendance"
	"github.com/chulcheck/chulcheck/utils"
)

// ReportController serves the community-wide read endpoints. Results are
// cached in Redis for a short TTL; accepted check-ins invalidate the whole
// report prefix, so staleness is bounded by the TTL only between check-ins.
type ReportController struct {
	svc      *attendance.Service
	cache    *utils.Cache
	loc      *time.Location
	cacheTTL time.Duration
}

func NewReportController(svc *attendance.Service, cache *utils.Cache, loc *time.Location, cacheTTL time.Duration) *ReportController {
	return &ReportController{svc: svc, cache: cache, loc: loc, cacheTTL: cacheTTL}
}

// ServerStats returns today's distinct check-in count, the registered user
// count, and the max-streak holder.
func (r *ReportController) ServerStats(ctx *gin.Context) {
	today := attendance.DateOf(time.Now().In(r.loc))
	key := reportCachePrefix + "server:" + today.String()

	var cached attendance.ServerStats
	if r.cache.GetJSON(ctx.Request.Context(), key, &cached) {
		utils.Success(ctx, cached)
		return
	}

	stats, err := r.svc.GetServerStats(ctx.Request.Context(), today)
	if err != nil {
		respondCoreError(ctx, err, 50020, "failed to load server stats")
		return
	}
	r.cache.SetJSON(ctx.Request.Context(), key, stats, r.cacheTTL)
	utils.Success(ctx, stats)
}

// Leaderboard returns the top-N ranking for a metric. Ties break by total
// days, then by aggregate-row insertion order.
func (r *ReportController) Leaderboard(ctx *gin.Context) {
	metric, err := attendance.ParseMetric(ctx.Param("metric"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "metric must be one of current_streak, max_streak, total_days")
		return
	}

	limit := attendance.DefaultLeaderboardLimit
	if raw := ctx.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			utils.Error(ctx, http.StatusBadRequest, 40022, "limit must be a positive integer")
			return
		}
	}

	key := fmt.Sprintf("%sboard:%s:%d", reportCachePrefix, metric, limit)
	var cached []attendance.LeaderboardEntry
	if r.cache.GetJSON(ctx.Request.Context(), key, &cached) {
		utils.Success(ctx, gin.H{"metric": metric, "entries": cached})
		return
	}

	entries, err := r.svc.GetLeaderboard(ctx.Request.Context(), metric, limit)
	if err != nil {
		respondCoreError(ctx, err, 50021, "failed to load leaderboard")
		return
	}
	r.cache.SetJSON(ctx.Request.Context(), key, entries, r.cacheTTL)
	utils.Success(ctx, gin.H{"metric": metric, "entries": entries})
}
