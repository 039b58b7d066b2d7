package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

type templateService struct {
	repo   TemplateRepository
	logger *log.Logger
	now    func() time.Time
}

func NewTemplateService(repo TemplateRepository, logger *log.Logger) TemplateService {
	return &templateService{repo: repo, logger: logger, now: time.Now}
}

// Resolve は有効なテンプレートを既定テンプレートに重ねて返す。
// 取得失敗・未設定・不正なデータのいずれでもエラーは返さず、既定テンプレートを使う。
func (s *templateService) Resolve(ctx context.Context) (resolved domain.ReportTemplate) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("テンプレート解決中に panic が発生したため既定テンプレートを使用します: %v", r)
			resolved = domain.DefaultTemplate()
		}
	}()

	overrides, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			s.logf("有効なレポートテンプレートがないため既定テンプレートを使用します")
		} else {
			s.logf("レポートテンプレートの取得に失敗したため既定テンプレートを使用します: %v", err)
		}
		return domain.DefaultTemplate()
	}
	if overrides == nil {
		return domain.DefaultTemplate()
	}

	merged := domain.MergeOverDefault(*overrides)
	if err := merged.Validate(); err != nil {
		s.logf("レポートテンプレート id=%s が不正なため既定テンプレートを使用します: %v", overrides.ID, err)
		return domain.DefaultTemplate()
	}
	return merged
}

func (s *templateService) Default() domain.ReportTemplate {
	return domain.DefaultTemplate()
}

func (s *templateService) List(ctx context.Context) ([]domain.ReportTemplate, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	templates := make([]domain.ReportTemplate, 0, len(stored))
	for _, o := range stored {
		templates = append(templates, domain.MergeOverDefault(o))
	}
	return templates, nil
}

func (s *templateService) Detail(ctx context.Context, id string) (*domain.ReportTemplate, error) {
	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tmpl := domain.MergeOverDefault(*stored)
	return &tmpl, nil
}

// Create は検証済みのテンプレートを保存する。IsActive が指定されていれば保存後に有効化する。
func (s *templateService) Create(ctx context.Context, tmpl domain.ReportTemplate) (*domain.ReportTemplate, error) {
	if err := ValidateTemplate(tmpl); err != nil {
		return nil, err
	}
	activate := tmpl.IsActive
	now := s.now().UTC()
	tmpl.ID = ""
	tmpl.Name = strings.TrimSpace(tmpl.Name)
	tmpl.IsActive = false
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	if err := s.repo.Create(ctx, &tmpl); err != nil {
		return nil, err
	}
	if activate {
		return s.Activate(ctx, tmpl.ID)
	}
	return &tmpl, nil
}

// Update はテンプレート内容を差し替える。有効フラグは Activate でのみ変更する。
func (s *templateService) Update(ctx context.Context, id string, tmpl domain.ReportTemplate) (*domain.ReportTemplate, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateTemplate(tmpl); err != nil {
		return nil, err
	}
	tmpl.ID = existing.ID
	tmpl.Name = strings.TrimSpace(tmpl.Name)
	tmpl.IsActive = existing.IsActive
	tmpl.CreatedAt = existing.CreatedAt
	tmpl.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Activate は指定テンプレートだけを有効にする。
func (s *templateService) Activate(ctx context.Context, id string) (*domain.ReportTemplate, error) {
	if err := s.repo.Activate(ctx, id, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.Detail(ctx, id)
}

// ValidateTemplate はフィールド形式（色・URL・メール）と帯の分割をまとめて検査する。
func ValidateTemplate(tmpl domain.ReportTemplate) error {
	if strings.TrimSpace(tmpl.Name) == "" {
		return domain.NewValidationError("name", "template name is required")
	}
	// 帯の分割エラーはセクション名を含むので先に返す。
	if err := tmpl.Validate(); err != nil {
		return err
	}
	err := Check(tmpl)
	var fields FieldErrors
	if !errors.As(err, &fields) {
		return err
	}
	return sectionKeyedFields(tmpl, fields)
}

// sectionKeyedFields は DetailedSections[0] のような添字をカテゴリ名に置き換える。
func sectionKeyedFields(tmpl domain.ReportTemplate, fields FieldErrors) FieldErrors {
	out := make(FieldErrors, len(fields))
	for key, msg := range fields {
		for i, section := range tmpl.DetailedSections {
			prefix := fmt.Sprintf("DetailedSections[%d]", i)
			if strings.HasPrefix(key, prefix+".") {
				key = "DetailedSections[" + section.Category.String() + "]" + strings.TrimPrefix(key, prefix)
				break
			}
		}
		out[key] = msg
	}
	return out
}

func (s *templateService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
