package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

func TestSubmissionDocumentUsesStoredFieldNames(t *testing.T) {
	answers := domain.AnswerSet{1: 4, 2: 5, 13: 1}
	completed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sub := domain.Submission{
		Contact:        domain.Contact{Name: "Ada", Email: "ada@example.com"},
		Answers:        answers,
		TotalScore:     10,
		MaxScore:       15,
		Percentage:     67,
		ScoreLevel:     "Developing",
		CategoryScores: []domain.CategoryScore{{Category: domain.CategoryVision, Score: 9, MaxScore: 10, Percentage: 90, Label: "ignored"}},
		FollowUpStatus: domain.FollowUpPending,
		CompletedAt:    completed,
		CreatedAt:      completed,
		UpdatedAt:      completed,
	}
	doc := mapDomainSubmissionToDocument(sub)
	doc.ID = primitive.NewObjectID()

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	for _, key := range []string{"respondentName", "respondentEmail", "answers", "totalScore", "scoreLevel", "categoryScores", "followUpStatus", "completedAt"} {
		assert.Contains(t, m, key)
	}
	assert.NotContains(t, m, "respondentPhone")
	assert.NotContains(t, m, "reportSentAt")

	var decoded SubmissionDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, map[string]int{"1": 4, "2": 5, "13": 1}, decoded.Answers)
	back := mapSubmissionDocument(decoded)
	assert.Equal(t, doc.ID.Hex(), back.ID)
	assert.Equal(t, answers, back.Answers)
	assert.Equal(t, 90, back.CategoryPercentage(domain.CategoryVision))
	assert.Empty(t, back.CategoryScores[0].Label)
}

func TestTemplateDocumentPreservesOverrides(t *testing.T) {
	tmpl := domain.DefaultTemplate()
	tmpl.Name = "Custom"
	tmpl.Branding.CompanyName = "Acme"
	tmpl.DetailedSections[2].ScoringCriteria.Low.Max = 49
	tmpl.DetailedSections[2].ScoringCriteria.Medium.Min = 50

	doc := mapDomainTemplateToDocument(tmpl)
	doc.ID = primitive.NewObjectID()
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded ReportTemplateDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	merged := domain.MergeOverDefault(mapTemplateDocument(decoded))

	assert.Equal(t, doc.ID.Hex(), merged.ID)
	assert.Equal(t, "Custom", merged.Name)
	assert.Equal(t, "Acme", merged.Branding.CompanyName)
	assert.Equal(t, tmpl.DetailedSections, merged.DetailedSections)
	assert.Equal(t, tmpl.Recommendations, merged.Recommendations)
	assert.NoError(t, merged.Validate())
}

func TestPartialTemplateDocumentFallsBackToDefault(t *testing.T) {
	doc := ReportTemplateDocument{
		ID:       primitive.NewObjectID(),
		Name:     "Branding only",
		IsActive: true,
		Branding: &BrandingDocument{CompanyName: "Acme", PrimaryColor: "#000000"},
	}
	merged := domain.MergeOverDefault(mapTemplateDocument(doc))
	def := domain.DefaultTemplate()

	assert.Equal(t, "Acme", merged.Branding.CompanyName)
	assert.Empty(t, merged.Branding.SecondaryColor)
	assert.Equal(t, def.ExecutiveSummary, merged.ExecutiveSummary)
	assert.Equal(t, def.DetailedSections, merged.DetailedSections)
	assert.Equal(t, def.CallToAction, merged.CallToAction)
}

func TestBuildSubmissionFilter(t *testing.T) {
	assert.Empty(t, buildSubmissionFilter(application.SubmissionFilter{}))

	filter := buildSubmissionFilter(application.SubmissionFilter{
		FollowUpStatus: " Contacted ",
		ScoreLevel:     "legacy-ready",
		Keyword:        "a.b",
	})
	assert.Equal(t, "contacted", filter["followUpStatus"])
	assert.Equal(t, primitive.Regex{Pattern: `^legacy-ready$`, Options: "i"}, filter["scoreLevel"])
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 3)
	assert.Equal(t, bson.M{"respondentName": primitive.Regex{Pattern: `a\.b`, Options: "i"}}, or[0])
}

func TestParseObjectIDMapsInvalidToNotFound(t *testing.T) {
	_, err := parseObjectID("not-hex", application.ErrSubmissionNotFound)
	assert.ErrorIs(t, err, application.ErrSubmissionNotFound)

	id := primitive.NewObjectID()
	parsed, err := parseObjectID(" "+id.Hex()+" ", application.ErrSubmissionNotFound)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestSupersededActiveFilterKeepsLaterActivation(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	filter := supersededActiveFilter(id, at)
	assert.Equal(t, bson.M{"$ne": id}, filter["_id"])
	assert.Equal(t, true, filter["isActive"])
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"activatedAt": bson.M{"$lte": at}}, or[0])
	assert.Equal(t, bson.M{"activatedAt": bson.M{"$exists": false}}, or[1])

	assert.Equal(t, "activatedAt", activeTemplateSort[0].Key)
}

func TestTemplateDocumentOmitsActivatedAtUntilActivated(t *testing.T) {
	doc := mapDomainTemplateToDocument(domain.DefaultTemplate())
	doc.ID = primitive.NewObjectID()
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.NotContains(t, m, "activatedAt")
}

func TestTranslateDuplicateNumber(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	err := translateDuplicateNumber(dup, 7)
	assert.True(t, application.IsValidationError(err))
	assert.Contains(t, err.Error(), "7")

	other := errors.New("connection reset")
	assert.Equal(t, other, translateDuplicateNumber(other, 7))
}
