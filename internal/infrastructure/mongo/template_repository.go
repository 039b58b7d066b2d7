package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

// TemplateRepository はレポートテンプレートを MongoDB で扱うリポジトリ。
type TemplateRepository struct {
	templates *mongo.Collection
}

func NewTemplateRepository(db *mongo.Database, collection string) *TemplateRepository {
	return &TemplateRepository{templates: db.Collection(collection)}
}

// FindActive は isActive なテンプレートを返す。
// 同時に有効化されて複数残った場合は activatedAt が最も新しいものを採る。
func (r *TemplateRepository) FindActive(ctx context.Context) (*domain.TemplateOverrides, error) {
	opts := options.FindOne().SetSort(activeTemplateSort)
	var doc ReportTemplateDocument
	if err := r.templates.FindOne(ctx, bson.M{"isActive": true}, opts).Decode(&doc); err != nil {
		return nil, translateNotFound(err, application.ErrTemplateNotFound)
	}
	overrides := mapTemplateDocument(doc)
	return &overrides, nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*domain.TemplateOverrides, error) {
	objectID, err := parseObjectID(id, application.ErrTemplateNotFound)
	if err != nil {
		return nil, err
	}
	var doc ReportTemplateDocument
	if err := r.templates.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, translateNotFound(err, application.ErrTemplateNotFound)
	}
	overrides := mapTemplateDocument(doc)
	return &overrides, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]domain.TemplateOverrides, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.templates.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	templates := make([]domain.TemplateOverrides, 0)
	for cursor.Next(ctx) {
		var doc ReportTemplateDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		templates = append(templates, mapTemplateDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepository) Create(ctx context.Context, tmpl *domain.ReportTemplate) error {
	if tmpl == nil {
		return errors.New("template payload is nil")
	}
	doc := mapDomainTemplateToDocument(*tmpl)
	doc.ID = primitive.NewObjectID()
	if _, err := r.templates.InsertOne(ctx, doc); err != nil {
		return err
	}
	tmpl.ID = doc.ID.Hex()
	return nil
}

// Update は内容を差し替える。isActive と createdAt は変更しない。
func (r *TemplateRepository) Update(ctx context.Context, tmpl *domain.ReportTemplate) error {
	if tmpl == nil {
		return errors.New("template payload is nil")
	}
	objectID, err := parseObjectID(tmpl.ID, application.ErrTemplateNotFound)
	if err != nil {
		return err
	}
	doc := mapDomainTemplateToDocument(*tmpl)
	update := bson.M{
		"name":             doc.Name,
		"executiveSummary": doc.ExecutiveSummary,
		"detailedSections": doc.DetailedSections,
		"recommendations":  doc.Recommendations,
		"callToAction":     doc.CallToAction,
		"branding":         doc.Branding,
		"emailSettings":    doc.EmailSettings,
		"updatedAt":        doc.UpdatedAt,
	}
	result, err := r.templates.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrTemplateNotFound
	}
	return nil
}

// activeTemplateSort は有効テンプレートの優先順。activatedAt の無い旧データは updatedAt で並べる。
var activeTemplateSort = bson.D{{Key: "activatedAt", Value: -1}, {Key: "updatedAt", Value: -1}}

// Activate は対象を有効化し、それより前に有効化されたテンプレートを無効化する。
// 2 つの書き込みの間に別の有効化が割り込んでも、後から有効化した側が残る。
func (r *TemplateRepository) Activate(ctx context.Context, id string, at time.Time) error {
	objectID, err := parseObjectID(id, application.ErrTemplateNotFound)
	if err != nil {
		return err
	}
	result, err := r.templates.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{"isActive": true, "activatedAt": at, "updatedAt": at}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrTemplateNotFound
	}

	_, err = r.templates.UpdateMany(ctx,
		supersededActiveFilter(objectID, at),
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": at}},
	)
	return err
}

// supersededActiveFilter は at 以前に有効化された他の有効テンプレートを選ぶ。
func supersededActiveFilter(id primitive.ObjectID, at time.Time) bson.M {
	return bson.M{
		"_id":      bson.M{"$ne": id},
		"isActive": true,
		"$or": bson.A{
			bson.M{"activatedAt": bson.M{"$lte": at}},
			bson.M{"activatedAt": bson.M{"$exists": false}},
		},
	}
}
