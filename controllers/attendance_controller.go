package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chulcheck/chulcheck/attendance"
	"github.com/chulcheck/chulcheck/models"
	"github.com/chulcheck/chulcheck/utils"
)

// reportCachePrefix groups all cached report keys so an accepted check-in can
// invalidate them in one sweep.
const reportCachePrefix = "report:"

// AttendanceController handles check-in and per-user read endpoints. It is a
// thin adapter: date resolution, validation mapping, and response shaping
// only — the core never produces user-facing text.
type AttendanceController struct {
	svc   *attendance.Service
	cache *utils.Cache
	loc   *time.Location
}

func NewAttendanceController(svc *attendance.Service, cache *utils.Cache, loc *time.Location) *AttendanceController {
	return &AttendanceController{svc: svc, cache: cache, loc: loc}
}

type checkInRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	UserName    string `json:"user_name"`
	DisplayName string `json:"display_name"`
	// Date is optional YYYY-MM-DD; empty means "today" in the configured
	// location.
	Date string `json:"date"`
}

// CheckIn records a daily attendance event.
func (a *AttendanceController) CheckIn(ctx *gin.Context) {
	var req checkInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request body")
		return
	}

	day, ok := a.resolveDate(ctx, req.Date)
	if !ok {
		return
	}

	member := attendance.Member{
		ID:          req.UserID,
		UserName:    req.UserName,
		DisplayName: req.DisplayName,
	}
	res, err := a.svc.CheckIn(ctx.Request.Context(), member, day)
	if err != nil {
		respondCoreError(ctx, err, 50010, "failed to record check-in")
		return
	}

	if res.Accepted {
		a.cache.InvalidatePrefix(ctx.Request.Context(), reportCachePrefix)
	}
	utils.Success(ctx, gin.H{
		"accepted": res.Accepted,
		"stats":    statsPayload(res.Stats),
	})
}

// GetStats returns a user's aggregate stats.
func (a *AttendanceController) GetStats(ctx *gin.Context) {
	userID := ctx.Param("id")
	stats, found, err := a.svc.GetStats(ctx.Request.Context(), userID)
	if err != nil {
		respondCoreError(ctx, err, 50011, "failed to load stats")
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40410, "no attendance record for user")
		return
	}
	utils.Success(ctx, statsPayload(stats))
}

// MonthlyCalendar returns the user's attendance dates within a calendar
// month, ascending.
func (a *AttendanceController) MonthlyCalendar(ctx *gin.Context) {
	userID := ctx.Param("id")
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid year")
		return
	}
	month, err := strconv.Atoi(ctx.Param("month"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid month")
		return
	}

	dates, err := a.svc.GetMonthlyDays(ctx.Request.Context(), userID, year, time.Month(month))
	if err != nil {
		respondCoreError(ctx, err, 50012, "failed to load monthly attendance")
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.String())
	}
	utils.Success(ctx, gin.H{
		"year":  year,
		"month": month,
		"dates": out,
	})
}

// resolveDate parses an explicit date or falls back to today in the
// configured location. Writes the error response itself on failure.
func (a *AttendanceController) resolveDate(ctx *gin.Context, raw string) (attendance.Date, bool) {
	if raw == "" {
		return attendance.DateOf(time.Now().In(a.loc)), true
	}
	day, err := attendance.ParseDate(raw)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "date must be YYYY-MM-DD")
		return attendance.Date{}, false
	}
	return day, true
}

// statsPayload shapes the aggregate for the wire, with the date as a plain
// civil date string rather than a timestamp.
func statsPayload(s models.UserStats) gin.H {
	var last interface{}
	if s.LastAttendanceDate != nil {
		last = attendance.DateOf(*s.LastAttendanceDate).String()
	}
	return gin.H{
		"user_id":              s.UserID,
		"user_name":            s.UserName,
		"display_name":         s.DisplayName,
		"current_streak":       s.CurrentStreak,
		"max_streak":           s.MaxStreak,
		"total_days":           s.TotalDays,
		"last_attendance_date": last,
	}
}

// respondCoreError maps core errors onto the response envelope: validation
// failures are the caller's fault, everything else is a storage problem.
func respondCoreError(ctx *gin.Context, err error, storageCode int, storageMsg string) {
	switch {
	case errors.Is(err, attendance.ErrEmptyUserID),
		errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, attendance.ErrInvalidMonth),
		errors.Is(err, attendance.ErrInvalidMetric),
		errors.Is(err, attendance.ErrInvalidLimit):
		utils.Error(ctx, http.StatusBadRequest, 40020, err.Error())
	default:
		utils.Sugar.Errorw("storage failure", "error", err, "path", ctx.Request.URL.Path)
		utils.Error(ctx, http.StatusInternalServerError, storageCode, storageMsg)
	}
}
