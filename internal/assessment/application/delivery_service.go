package application

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

const (
	defaultRetryLimit       = 50
	defaultRetryConcurrency = 4
)

type deliveryService struct {
	failures    FailedDeliveryRepository
	submissions SubmissionRepository
	reports     ReportService
	notifier    LeadNotifier
	logger      *log.Logger
	concurrency int
	now         func() time.Time
}

// DeliveryServiceConfig provides dependencies for the retry queue.
type DeliveryServiceConfig struct {
	Failures    FailedDeliveryRepository
	Submissions SubmissionRepository
	Reports     ReportService
	Notifier    LeadNotifier
	Logger      *log.Logger
	Concurrency int
}

func NewDeliveryService(cfg DeliveryServiceConfig) DeliveryService {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultRetryConcurrency
	}
	return &deliveryService{
		failures:    cfg.Failures,
		submissions: cfg.Submissions,
		reports:     cfg.Reports,
		notifier:    cfg.Notifier,
		logger:      cfg.Logger,
		concurrency: concurrency,
		now:         time.Now,
	}
}

func (s *deliveryService) ListPending(ctx context.Context, limit int) ([]domain.FailedDelivery, error) {
	if limit <= 0 {
		limit = defaultRetryLimit
	}
	return s.failures.ListPending(ctx, limit)
}

// RetryPending は保留中の送信を並行して再実行する。個々の失敗は試行回数に反映し、全体はエラーにしない。
func (s *deliveryService) RetryPending(ctx context.Context, limit int) (RetrySummary, error) {
	pending, err := s.ListPending(ctx, limit)
	if err != nil {
		return RetrySummary{}, err
	}

	var (
		mu      sync.Mutex
		summary RetrySummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, delivery := range pending {
		delivery := delivery
		g.Go(func() error {
			retryErr := s.retryOne(gctx, delivery)
			now := s.now().UTC()

			mu.Lock()
			summary.Attempted++
			if retryErr == nil {
				summary.Resolved++
			} else {
				summary.Failed++
			}
			mu.Unlock()

			if retryErr == nil {
				if err := s.failures.MarkResolved(gctx, delivery.ID, now); err != nil {
					s.logf("再送結果の保存に失敗 id=%s: %v", delivery.ID, err)
				}
				return nil
			}
			s.logf("再送に失敗 id=%s kind=%s: %v", delivery.ID, delivery.Kind, retryErr)
			if err := s.failures.MarkAttempted(gctx, delivery.ID, retryErr.Error(), now); err != nil {
				s.logf("再送結果の保存に失敗 id=%s: %v", delivery.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return summary, nil
}

func (s *deliveryService) retryOne(ctx context.Context, delivery domain.FailedDelivery) error {
	switch delivery.Kind {
	case domain.DeliveryReportEmail:
		return s.reports.Deliver(ctx, delivery.SubmissionID)
	case domain.DeliveryLeadNotification:
		if s.notifier == nil {
			return fmt.Errorf("lead notifier is not configured")
		}
		submission, err := s.submissions.FindByID(ctx, delivery.SubmissionID)
		if err != nil {
			return err
		}
		return s.notifier.NotifyLead(ctx, *submission)
	default:
		return fmt.Errorf("unknown delivery kind: %s", delivery.Kind)
	}
}

func (s *deliveryService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
