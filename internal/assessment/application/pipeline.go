package application

import (
	"context"
	"log"
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

const (
	leadNotifyTimeout    = 15 * time.Second
	failureRecordTimeout = 5 * time.Second
)

// AssessmentPipeline は提出からレポート送付までの流れをまとめる。
// 提出の永続化が成功した後の処理（通知・レポート）は失敗しても提出を取り消さない。
type AssessmentPipeline struct {
	submissions SubmissionService
	reports     ReportService
	notifier    LeadNotifier
	failures    FailedDeliveryRepository
	logger      *log.Logger
	dispatch    func(func())
	now         func() time.Time

	notifyTimeout time.Duration
}

// PipelineConfig provides dependencies for AssessmentPipeline.
type PipelineConfig struct {
	Submissions SubmissionService
	Reports     ReportService
	Notifier    LeadNotifier
	Failures    FailedDeliveryRepository
	Logger      *log.Logger
}

// Outcome は Complete の結果。ReportErr はレポート生成・送信の失敗で、提出自体は成功している。
type Outcome struct {
	*SubmitResult
	Report    *ReportResult
	ReportErr error
}

var _ AssessmentService = (*AssessmentPipeline)(nil)

func NewAssessmentPipeline(cfg PipelineConfig) *AssessmentPipeline {
	return &AssessmentPipeline{
		submissions: cfg.Submissions,
		reports:     cfg.Reports,
		notifier:    cfg.Notifier,
		failures:    cfg.Failures,
		logger:      cfg.Logger,
		dispatch:    func(fn func()) { go fn() },
		now:         time.Now,

		notifyTimeout: leadNotifyTimeout,
	}
}

// Complete は採点・保存を行い、メールアドレスがあればレポートを生成して送る。
func (p *AssessmentPipeline) Complete(ctx context.Context, cmd SubmitCommand) (*Outcome, error) {
	result, err := p.submissions.Submit(ctx, cmd)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{SubmitResult: result}
	submission := *result.Submission

	if p.notifier != nil {
		p.dispatch(func() {
			p.notifyLead(submission)
		})
	}

	if !submission.HasEmail() || p.reports == nil {
		return outcome, nil
	}
	report, err := p.reports.Generate(ctx, submission.ID, true)
	if err != nil {
		p.logf("提出 %s のレポート送付に失敗しました（提出は保存済み）: %v", submission.ID, err)
		outcome.ReportErr = err
		return outcome, nil
	}
	outcome.Report = report
	if report.Submission.ReportSentAt != nil {
		outcome.Submission.ReportSentAt = report.Submission.ReportSentAt
	}
	return outcome, nil
}

func (p *AssessmentPipeline) notifyLead(submission domain.Submission) {
	notifyCtx, cancel := context.WithTimeout(context.Background(), p.notifyTimeout)
	err := p.notifier.NotifyLead(notifyCtx, submission)
	cancel()
	if err == nil {
		return
	}
	p.logf("スタッフ通知の送信に失敗 submission=%s: %v", submission.ID, err)
	if p.failures == nil {
		return
	}
	// 通知側でタイムアウトしていても記録できるよう、保存用のコンテキストは別に作る。
	recordCtx, cancelRecord := context.WithTimeout(context.Background(), failureRecordTimeout)
	defer cancelRecord()
	failure := domain.NewFailedDelivery(domain.DeliveryLeadNotification, submission.ID, "", err, 1, p.now().UTC())
	if err := p.failures.Record(recordCtx, failure); err != nil {
		p.logf("failed_deliveries への保存に失敗 submission=%s: %v", submission.ID, err)
	}
}

func (p *AssessmentPipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
