package detector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verygoodplugins/llm-url-solution/internal/analyzer"
	"github.com/verygoodplugins/llm-url-solution/internal/config"
	"github.com/verygoodplugins/llm-url-solution/internal/store"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

// MissReport carries the fields of one reported 404 hit.
type MissReport struct {
	RequestedURL string
	Referrer     string
	ClientIP     string
	UserAgent    string
}

// PostTypeResolver maps a slug to a content type using site taxonomy. An
// empty result means no match.
type PostTypeResolver interface {
	ResolvePostType(ctx context.Context, slug string) (string, error)
}

// Scheduler queues a generation attempt to run after a delay.
type Scheduler interface {
	Schedule(eventID uuid.UUID, delay time.Duration)
}

// Service runs the detection pipeline: gate on referrer and blacklist,
// analyze the slug, and persist the event. Recording is advisory; a miss
// that fails every gate is simply not recorded.
type Service struct {
	store     store.Store
	analyzer  *analyzer.Analyzer
	referrers *ReferrerGate
	blacklist *BlacklistGate
	typer     PostTypeResolver
	scheduler Scheduler
	cfg       config.DetectionConfig
	logger    *slog.Logger
}

// NewService wires the detection pipeline. typer and scheduler may be nil;
// post-type resolution and auto-generation are then skipped.
func NewService(
	st store.Store,
	an *analyzer.Analyzer,
	typer PostTypeResolver,
	scheduler Scheduler,
	cfg config.DetectionConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:     st,
		analyzer:  an,
		referrers: NewReferrerGate(cfg.ReferrerPatterns),
		blacklist: NewBlacklistGate(cfg.BlacklistPatterns),
		typer:     typer,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger,
	}
}

// HandleMiss runs the full pipeline for one reported 404. It returns the
// recorded event, or (nil, nil) when the report was rejected by a gate or
// deduplicated. Storage failures are the only errors.
func (s *Service) HandleMiss(ctx context.Context, report MissReport) (*models.DetectionEvent, error) {
	if !s.referrers.Match(report.Referrer) {
		return nil, nil
	}

	slug := ExtractSlug(report.RequestedURL)
	if slug == "" {
		return nil, nil
	}

	if s.blacklist.Blocked(slug) {
		s.logger.Debug("blacklisted slug rejected", "slug", slug)
		return nil, nil
	}

	analysis := s.analyzer.Analyze(slug)

	event := &models.DetectionEvent{
		ID:               uuid.New(),
		RequestedURL:     report.RequestedURL,
		URLSlug:          slug,
		Referrer:         report.Referrer,
		ClientIP:         report.ClientIP,
		UserAgent:        report.UserAgent,
		ConfidenceScore:  &analysis.Confidence,
		GenerationStatus: models.GenerationStatusPending,
	}

	if s.typer != nil {
		postType, err := s.typer.ResolvePostType(ctx, slug)
		if err != nil {
			s.logger.Warn("post type resolution failed", "slug", slug, "error", err)
		} else if postType != "" {
			event.DetectedPostType = &postType
		}
	}

	if err := s.store.InsertEvent(ctx, event, s.cfg.DedupWindow); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			s.logger.Debug("duplicate detection suppressed", "slug", slug)
			return nil, nil
		}
		return nil, fmt.Errorf("recording detection: %w", err)
	}

	s.logger.Info("404 detection recorded",
		"event_id", event.ID,
		"slug", slug,
		"referrer", report.Referrer,
		"confidence", analysis.Confidence,
	)

	if s.cfg.AutoGenerate && s.scheduler != nil {
		s.scheduler.Schedule(event.ID, s.cfg.AutoGenerateDelay)
	}

	return event, nil
}
