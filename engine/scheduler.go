package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeSchedules starts all the cron jobs (currently just the retention
// sweep)
func (serverHandler *ServerHandler) InitializeSchedules() {
	// Run a sweep immediately at startup in a goroutine
	Logger.Info("Running retention sweep at startup")
	go serverHandler.retentionSweep()

	c := cron.New()
	var sweepJob cron.Job
	sweepJob = cron.FuncJob(func() { serverHandler.retentionSweep() })
	sweepJob = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(sweepJob) //ensure we don't kick off another if old one is still running
	c.AddJob(fmt.Sprintf("@every %dm", serverHandler.ServerConfig.CleanupInterval), sweepJob)
	Logger.Info("Adding retention sweep scheduler", "interval_minutes", serverHandler.ServerConfig.CleanupInterval)
	c.Start()
}

// retentionSweep removes comparisons past their retention window together
// with their stored results, and prunes old finished jobs
func (serverHandler *ServerHandler) retentionSweep() {
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic recovered in retention sweep", "panic", r)
		}
	}()

	retention := time.Duration(serverHandler.ServerConfig.RetentionHours) * time.Hour
	cutoff := time.Now().Add(-retention)
	Logger.Info("Starting retention sweep", "cutoff", cutoff)

	expired, err := serverHandler.DB.GetComparisonsOlderThan(cutoff)
	if err != nil {
		Logger.Error("Failed to list expired comparisons", "error", err)
		return
	}

	removed := 0
	for _, comp := range expired {
		if comp.OutputDir != "" {
			if err := os.RemoveAll(comp.OutputDir); err != nil {
				Logger.Error("Failed to remove comparison results", "path", comp.OutputDir, "error", err)
				continue
			}
		}
		if err := serverHandler.DB.DeleteComparison(comp.ULID.String()); err != nil {
			Logger.Error("Failed to delete expired comparison", "comparison", comp.ULID, "error", err)
			continue
		}
		removed++
	}

	prunedJobs, err := serverHandler.DB.DeleteOldJobs(retention)
	if err != nil {
		Logger.Error("Failed to prune old jobs", "error", err)
	}

	Logger.Info("Retention sweep completed", "comparisons_removed", removed, "jobs_pruned", prunedJobs)
}
