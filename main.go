package main

import (
	"time"

	"github.com/chulcheck/chulcheck/config"
	"github.com/chulcheck/chulcheck/models"
	"github.com/chulcheck/chulcheck/routes"
	"github.com/chulcheck/chulcheck/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		utils.Sugar.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	db, err := config.OpenDatabase(cfg, &models.UserStats{}, &models.AttendanceEvent{})
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	cache := utils.NewCache(cfg)
	defer cache.Close()

	r := routes.SetupRouter(cfg, db, cache, loc)

	utils.Sugar.Infof("starting attendance service on port %s (day boundary %s)", cfg.AppPort, cfg.Timezone)
	if err := utils.Serve(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
