package utils

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// InitializeCleanupScheduler removes stale generated files on the given cron spec.
// The returned scheduler is already started.
func InitializeCleanupScheduler(spec, dir string, maxAge time.Duration) (*cron.Cron, error) {
	log.Println("[CLEANUP-SCHEDULER] Initializing cleanup scheduler...")

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		log.Println("[CLEANUP-SCHEDULER] Running generated file cleanup...")
		CleanupGeneratedFiles(dir, maxAge)
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[CLEANUP-SCHEDULER] Cleanup scheduler started - %q, max age %s", spec, maxAge)
	return c, nil
}

// CleanupGeneratedFiles deletes PDF and PNG files in dir older than maxAge and returns how many were removed
func CleanupGeneratedFiles(dir string, maxAge time.Duration) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[CLEANUP-SCHEDULER] Error reading %s: %v", dir, err)
		}
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".pdf" && ext != ".png" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Printf("[CLEANUP-SCHEDULER] Error removing %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}

	log.Printf("[CLEANUP-SCHEDULER] Removed %d generated files", removed)
	return removed
}
