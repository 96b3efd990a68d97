// Package generator orchestrates content generation for detection events:
// rate limiting, confidence gating, prompt context assembly, the provider
// call, publication, and the event state transitions around all of it.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verygoodplugins/llm-url-solution/internal/analyzer"
	"github.com/verygoodplugins/llm-url-solution/internal/cache"
	"github.com/verygoodplugins/llm-url-solution/internal/config"
	"github.com/verygoodplugins/llm-url-solution/internal/publisher"
	"github.com/verygoodplugins/llm-url-solution/internal/store"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

const statusCacheTTL = 5 * time.Minute

// Notifier is called after a successful publication. Implementations must
// not block; failures are the notifier's own problem.
type Notifier interface {
	ContentGenerated(ctx context.Context, event *models.DetectionEvent, record *models.PublishedRecord, analysis models.AnalysisResult)
}

// Machine-readable outcome codes for Result.Code. Reason carries the
// human-readable message stored in generation_message.
const (
	CodeAlreadyProcessed = "already_processed"
	CodeRateLimited      = "rate_limited"
	CodeLowConfidence    = "low_confidence"
	CodeProviderFailed   = "provider_failed"
	CodePublishFailed    = "publish_failed"
)

// Result describes the outcome of one generation attempt. Gating outcomes
// (rate limit, low confidence, already processed) are results, not errors;
// errors are reserved for infrastructure failures.
type Result struct {
	EventID   uuid.UUID  `json:"event_id"`
	Generated bool       `json:"generated"`
	RecordID  *uuid.UUID `json:"record_id,omitempty"`
	Status    string     `json:"status"`
	Code      string     `json:"code,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// Service runs the generation pipeline for one event at a time.
type Service struct {
	store     store.Store
	cache     cache.Cache
	analyzer  *analyzer.Analyzer
	searcher  publisher.Searcher
	publisher publisher.Publisher
	provider  models.Provider
	limiter   *RateLimiter
	cfg       config.GenerationConfig
	site      config.SiteConfig
	logger    *slog.Logger
	notifiers []Notifier
}

// NewService wires the generation pipeline. cache may be nil; status caching
// is then skipped.
func NewService(
	st store.Store,
	c cache.Cache,
	an *analyzer.Analyzer,
	searcher publisher.Searcher,
	pub publisher.Publisher,
	provider models.Provider,
	limiter *RateLimiter,
	cfg config.GenerationConfig,
	site config.SiteConfig,
	logger *slog.Logger,
	notifiers ...Notifier,
) *Service {
	return &Service{
		store:     st,
		cache:     c,
		analyzer:  an,
		searcher:  searcher,
		publisher: pub,
		provider:  provider,
		limiter:   limiter,
		cfg:       cfg,
		site:      site,
		logger:    logger,
		notifiers: notifiers,
	}
}

// Generate runs the full pipeline for the event. Repeated calls for an
// already-handled event are no-ops reporting the stored status.
func (s *Service) Generate(ctx context.Context, eventID uuid.UUID) (*Result, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.setStatus(ctx, event.ID, models.GenerationStatusGenerating, "Starting content generation"); err != nil {
		return nil, err
	}

	if event.Processed || event.ContentGenerated {
		if err := s.setStatus(ctx, event.ID, models.GenerationStatusFailed, "Already processed"); err != nil {
			return nil, err
		}
		return &Result{
			EventID:  event.ID,
			RecordID: event.PublishedRecordID,
			Status:   models.GenerationStatusFailed,
			Code:     CodeAlreadyProcessed,
			Reason:   "Already processed",
		}, nil
	}

	if err := s.limiter.Check(ctx); err != nil {
		if errors.Is(err, ErrRateLimited) {
			s.logger.Warn("generation rate limited", "event_id", event.ID, "reason", err)
			// Recorded as failed, but processed stays false so a later attempt
			// can retry once the window rolls over.
			if serr := s.setStatus(ctx, event.ID, models.GenerationStatusFailed, err.Error()); serr != nil {
				return nil, serr
			}
			return &Result{
				EventID: event.ID,
				Status:  models.GenerationStatusFailed,
				Code:    CodeRateLimited,
				Reason:  err.Error(),
			}, nil
		}
		return nil, err
	}

	if err := s.setStatus(ctx, event.ID, models.GenerationStatusGenerating, "Analyzing URL"); err != nil {
		return nil, err
	}
	analysis := s.analyzer.Analyze(event.URLSlug)

	if analysis.Confidence < s.cfg.MinConfidence {
		reason := fmt.Sprintf("confidence %.2f below minimum %.2f", analysis.Confidence, s.cfg.MinConfidence)
		if err := s.fail(ctx, event.ID, reason); err != nil {
			return nil, err
		}
		s.logger.Info("generation skipped", "event_id", event.ID, "reason", reason)
		return &Result{EventID: event.ID, Status: models.GenerationStatusFailed,
			Code: CodeLowConfidence, Reason: reason}, nil
	}

	if err := s.setStatus(ctx, event.ID, models.GenerationStatusGenerating, "Searching related content"); err != nil {
		return nil, err
	}
	related, err := s.searcher.SearchRelated(ctx, analysis.Keywords, 5)
	if err != nil {
		s.logger.Warn("related content search failed", "event_id", event.ID, "error", err)
		related = []models.RelatedContent{}
	}

	gc := models.GenerationContext{
		Analysis:        analysis,
		RelatedContent:  related,
		SiteName:        s.site.Name,
		SiteDescription: s.site.Description,
		Settings: models.ContentSettings{
			MinLength:       s.cfg.ContentMinLength,
			MaxLength:       s.cfg.ContentMaxLength,
			Tone:            s.cfg.Tone,
			IncludeExamples: s.cfg.IncludeExamples,
			IncludeCode:     s.cfg.IncludeCode,
		},
		CustomInstructions: s.cfg.CustomPrompt,
	}

	if err := s.setStatus(ctx, event.ID, models.GenerationStatusGenerating, "Calling generation provider"); err != nil {
		return nil, err
	}
	content, err := s.provider.Generate(ctx, gc)
	if err != nil {
		reason := fmt.Sprintf("provider %s: %v", s.provider.Name(), err)
		if ferr := s.fail(ctx, event.ID, reason); ferr != nil {
			return nil, ferr
		}
		s.logger.Error("content generation failed", "event_id", event.ID, "error", err)
		return &Result{EventID: event.ID, Status: models.GenerationStatusFailed,
			Code: CodeProviderFailed, Reason: reason}, nil
	}

	if err := s.setStatus(ctx, event.ID, models.GenerationStatusGenerating, "Publishing record"); err != nil {
		return nil, err
	}
	record, err := s.publisher.Publish(ctx, event, analysis, content)
	if err != nil {
		reason := fmt.Sprintf("publishing: %v", err)
		if ferr := s.fail(ctx, event.ID, reason); ferr != nil {
			return nil, ferr
		}
		return &Result{EventID: event.ID, Status: models.GenerationStatusFailed,
			Code: CodePublishFailed, Reason: reason}, nil
	}

	if err := s.store.CompleteEvent(ctx, event.ID, record.ID); err != nil {
		if errors.Is(err, store.ErrAlreadyProcessed) {
			// A concurrent attempt won the conditional update. The record we
			// just published stays an unlinked draft.
			s.logger.Warn("lost completion race", "event_id", event.ID, "record_id", record.ID)
			return &Result{EventID: event.ID, Status: models.GenerationStatusSuccess,
				Code: CodeAlreadyProcessed, Reason: "Already processed"}, nil
		}
		return nil, err
	}

	if err := s.setStatus(ctx, event.ID, models.GenerationStatusSuccess,
		fmt.Sprintf("published record %s", record.ID)); err != nil {
		return nil, err
	}

	s.logger.Info("content generated",
		"event_id", event.ID,
		"record_id", record.ID,
		"slug", event.URLSlug,
		"title", record.Title,
	)

	for _, n := range s.notifiers {
		n.ContentGenerated(ctx, event, record, analysis)
	}

	return &Result{
		EventID:   event.ID,
		Generated: true,
		RecordID:  &record.ID,
		Status:    models.GenerationStatusSuccess,
	}, nil
}

// fail records a terminal failure: status plus processed flag, so the event
// is not retried automatically.
func (s *Service) fail(ctx context.Context, eventID uuid.UUID, reason string) error {
	if err := s.setStatus(ctx, eventID, models.GenerationStatusFailed, reason); err != nil {
		return err
	}
	return s.store.MarkProcessed(ctx, eventID)
}

func (s *Service) setStatus(ctx context.Context, eventID uuid.UUID, status, message string) error {
	if err := s.store.UpdateGenerationStatus(ctx, eventID, status, message); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.SetEventStatus(ctx, eventID, status, statusCacheTTL); err != nil {
			s.logger.Warn("status cache write failed", "event_id", eventID, "error", err)
		}
	}
	return nil
}
