package application

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestResolveFallsBackWhenStoreIsDown(t *testing.T) {
	repo := newFakeTemplateRepo()
	repo.activeErr = errStoreDown
	svc := NewTemplateService(repo, discardLogger())

	assert.Equal(t, domain.DefaultTemplate(), svc.Resolve(context.Background()))
}

func TestResolveFallsBackWhenNothingIsActive(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo(), discardLogger())
	assert.Equal(t, domain.DefaultTemplate(), svc.Resolve(context.Background()))
}

func TestResolveFallsBackOnMalformedBands(t *testing.T) {
	repo := newFakeTemplateRepo()
	sections := domain.DefaultTemplate().DetailedSections
	sections[0].ScoringCriteria.Medium.Min = 45
	repo.items["broken"] = domain.TemplateOverrides{ID: "broken", Name: "Broken", IsActive: true, DetailedSections: sections}
	svc := NewTemplateService(repo, discardLogger())

	resolved := svc.Resolve(context.Background())
	assert.Equal(t, domain.DefaultTemplate(), resolved)
}

func TestResolveMergesPartialTemplate(t *testing.T) {
	repo := newFakeTemplateRepo()
	repo.items["brand"] = domain.TemplateOverrides{
		ID:       "brand",
		Name:     "Acme",
		IsActive: true,
		Branding: &domain.Branding{CompanyName: "Acme Advisors", PrimaryColor: "#112233"},
	}
	svc := NewTemplateService(repo, discardLogger())

	resolved := svc.Resolve(context.Background())
	def := domain.DefaultTemplate()
	assert.Equal(t, "brand", resolved.ID)
	assert.Equal(t, "Acme Advisors", resolved.Branding.CompanyName)
	assert.Equal(t, "#112233", resolved.Branding.PrimaryColor)
	assert.Equal(t, def.DetailedSections, resolved.DetailedSections)
	assert.Equal(t, def.Recommendations, resolved.Recommendations)
	assert.Equal(t, def.EmailSettings, resolved.EmailSettings)
}

func TestCreateRejectsBandGap(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc := NewTemplateService(repo, discardLogger())

	tmpl := domain.DefaultTemplate()
	tmpl.Name = "Gap"
	for i := range tmpl.DetailedSections {
		if tmpl.DetailedSections[i].Category == domain.CategoryVision {
			tmpl.DetailedSections[i].ScoringCriteria.Low = domain.ScoreBand{Min: 0, Max: 39}
			tmpl.DetailedSections[i].ScoringCriteria.Medium.Min = 41
		}
	}

	_, err := svc.Create(context.Background(), tmpl)
	require.Error(t, err)
	var terr *domain.TemplateValidationError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "vision", terr.Section)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, repo.items)
}

func TestCreateRejectsMalformedFields(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo(), discardLogger())

	tmpl := domain.DefaultTemplate()
	tmpl.Name = "Bad colour"
	tmpl.Branding.PrimaryColor = "blue"
	_, err := svc.Create(context.Background(), tmpl)
	require.Error(t, err)

	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "Branding.primaryColor")

	blank := domain.DefaultTemplate()
	blank.Name = "  "
	_, err = svc.Create(context.Background(), blank)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestActivateKeepsSingleActiveTemplate(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc := NewTemplateService(repo, discardLogger())
	ctx := context.Background()

	first := domain.DefaultTemplate()
	first.Name = "First"
	first.IsActive = true
	created, err := svc.Create(ctx, first)
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	second := domain.DefaultTemplate()
	second.Name = "Second"
	other, err := svc.Create(ctx, second)
	require.NoError(t, err)
	assert.False(t, other.IsActive)

	activated, err := svc.Activate(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	active := 0
	for _, o := range repo.items {
		if o.IsActive {
			active++
			assert.Equal(t, other.ID, o.ID)
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, "Second", svc.Resolve(ctx).Name)
}

func TestUpdateDoesNotChangeActivation(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc := NewTemplateService(repo, discardLogger())
	ctx := context.Background()

	tmpl := domain.DefaultTemplate()
	tmpl.Name = "Draft"
	created, err := svc.Create(ctx, tmpl)
	require.NoError(t, err)

	edit := *created
	edit.Name = "Renamed"
	edit.IsActive = true
	updated, err := svc.Update(ctx, created.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, "missing", edit)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
}

func TestCreateKeysSectionErrorsByCategory(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc := NewTemplateService(repo, discardLogger())

	tmpl := domain.DefaultTemplate()
	tmpl.Name = "Unlabelled"
	for i := range tmpl.DetailedSections {
		if tmpl.DetailedSections[i].Category == domain.CategoryVision {
			tmpl.DetailedSections[i].ScoringCriteria.Low.Label = ""
		}
	}

	_, err := svc.Create(context.Background(), tmpl)
	require.Error(t, err)
	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "DetailedSections[vision].scoringCriteria.low.label")
	assert.Len(t, fields, 1)
	assert.Empty(t, repo.items)
}
