package maintenance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"line-item-service/internal/config"
	"line-item-service/internal/database"
	"line-item-service/internal/search"
)

// archivedBy is stamped into the audit trail of items the archiver touches.
const archivedBy = "system"

// Service archives line items whose expiration date has passed. Archival is
// a soft delete: status moves to archived and the audit trail records who
// and when; the row itself is never removed.
type Service struct {
	db        *database.GormDB
	search    *search.SearchClient
	cron      *cron.Cron
	config    *config.Config
	isRunning bool
}

// ArchiveResult holds the result of one archiver run
type ArchiveResult struct {
	TargetCount   int       `json:"target_count"`
	ArchivedCount int       `json:"archived_count"`
	ErrorCount    int       `json:"error_count"`
	ExecutedAt    time.Time `json:"executed_at"`
	ArchivedItems []string  `json:"archived_items"`
	Errors        []string  `json:"errors,omitempty"`
}

// NewService creates a new maintenance service. searchClient may be nil.
func NewService(db *database.GormDB, searchClient *search.SearchClient, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		search: searchClient,
		cron:   cron.New(),
		config: cfg,
	}
}

// Start registers the daily archiver job
func (s *Service) Start() error {
	if !s.config.Maintenance.Enabled {
		log.Println("Maintenance: Daily run is disabled in configuration")
		return nil
	}

	cronSpec := parseDailyRunTime(s.config.Maintenance.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Maintenance: Starting daily expiry archival...")
		result, err := s.ArchiveExpired(context.Background())
		if err != nil {
			log.Printf("Maintenance: Daily archival failed: %v", err)
			return
		}
		log.Printf("Maintenance: Daily archival completed (archived=%d, errors=%d)",
			result.ArchivedCount, result.ErrorCount)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Maintenance: Started with daily run at %s (cron: %s)",
		s.config.Maintenance.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Maintenance: Stopped")
	}
}

// ArchiveExpired finds every non-archived line item whose expirationDate has
// passed and soft-deletes it. Failures on individual items are collected and
// the run continues.
func (s *Service) ArchiveExpired(ctx context.Context) (*ArchiveResult, error) {
	result := &ArchiveResult{
		ExecutedAt: time.Now(),
	}

	expired, err := s.db.FindExpiredLineItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired line items: %w", err)
	}

	result.TargetCount = len(expired)
	if result.TargetCount == 0 {
		return result, nil
	}

	log.Printf("Maintenance: Found %d expired line items to archive", result.TargetCount)

	for i := range expired {
		item := &expired[i]
		item.MarkArchived(archivedBy)

		if err := s.db.SaveLineItem(ctx, item); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.ID, err))
			continue
		}

		result.ArchivedCount++
		result.ArchivedItems = append(result.ArchivedItems, item.ID)

		if s.search != nil {
			if err := s.search.IndexLineItem(item); err != nil {
				log.Printf("Warning: Failed to reindex archived line item %s: %v", item.ID, err)
			}
		}
	}

	return result, nil
}

func parseDailyRunTime(timeStr string) string {
	// timeStr is expected to be in "HH:MM" format
	// Convert to cron format: "minute hour * * *"
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 2:00 AM if parsing fails
	log.Printf("Maintenance: Failed to parse time '%s', using default 02:00", timeStr)
	return "0 2 * * *"
}
