package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

// QuestionRepository は設問バンクを MongoDB で扱うリポジトリ。
type QuestionRepository struct {
	questions *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database, collection string) *QuestionRepository {
	return &QuestionRepository{questions: db.Collection(collection)}
}

// FindAll は無効化済みも含めて order 順に返す。
func (r *QuestionRepository) FindAll(ctx context.Context) ([]domain.Question, error) {
	return r.find(ctx, bson.M{})
}

func (r *QuestionRepository) FindActive(ctx context.Context) ([]domain.Question, error) {
	questions, err := r.find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	return domain.ActiveQuestions(questions), nil
}

func (r *QuestionRepository) find(ctx context.Context, filter bson.M) ([]domain.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "questionNumber", Value: 1}})
	cursor, err := r.questions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := make([]domain.Question, 0)
	for cursor.Next(ctx) {
		var doc QuestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		questions = append(questions, mapQuestionDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*domain.Question, error) {
	objectID, err := parseObjectID(id, application.ErrQuestionNotFound)
	if err != nil {
		return nil, err
	}
	var doc QuestionDocument
	if err := r.questions.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, translateNotFound(err, application.ErrQuestionNotFound)
	}
	question := mapQuestionDocument(doc)
	return &question, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	if question == nil {
		return errors.New("question payload is nil")
	}
	doc := mapDomainQuestionToDocument(*question)
	doc.ID = primitive.NewObjectID()
	if _, err := r.questions.InsertOne(ctx, doc); err != nil {
		return translateDuplicateNumber(err, question.QuestionNumber)
	}
	question.ID = doc.ID.Hex()
	return nil
}

func (r *QuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	if question == nil {
		return errors.New("question payload is nil")
	}
	objectID, err := parseObjectID(question.ID, application.ErrQuestionNotFound)
	if err != nil {
		return err
	}
	doc := mapDomainQuestionToDocument(*question)
	update := bson.M{
		"questionNumber": doc.QuestionNumber,
		"questionText":   doc.QuestionText,
		"category":       doc.Category,
		"isActive":       doc.IsActive,
		"order":          doc.Order,
		"updatedAt":      doc.UpdatedAt,
	}
	result, err := r.questions.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return translateDuplicateNumber(err, question.QuestionNumber)
	}
	if result.MatchedCount == 0 {
		return application.ErrQuestionNotFound
	}
	return nil
}

// Deactivate は設問を削除せずに isActive=false にする。
func (r *QuestionRepository) Deactivate(ctx context.Context, id string, at time.Time) error {
	objectID, err := parseObjectID(id, application.ErrQuestionNotFound)
	if err != nil {
		return err
	}
	result, err := r.questions.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{"isActive": false, "updatedAt": at}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrQuestionNotFound
	}
	return nil
}

// parseObjectID は不正な ID を「存在しない」として扱う。
func parseObjectID(id string, notFound error) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return objectID, nil
}

func translateNotFound(err, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}

// translateDuplicateNumber は一意インデックス違反を入力エラーに置き換える。
func translateDuplicateNumber(err error, number int) error {
	if mongo.IsDuplicateKeyError(err) {
		return application.DuplicateQuestionNumberError(number)
	}
	return err
}
