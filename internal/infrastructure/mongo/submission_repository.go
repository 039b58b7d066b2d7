package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

// SubmissionRepository は提出を MongoDB で扱うリポジトリ。
// 作成後に書き換えるのはフォローアップ項目と reportSentAt のみ。
type SubmissionRepository struct {
	submissions *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database, collection string) *SubmissionRepository {
	return &SubmissionRepository{submissions: db.Collection(collection)}
}

// Create は 1 回の InsertOne で提出全体を保存する。
func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	if submission == nil {
		return errors.New("submission payload is nil")
	}
	doc := mapDomainSubmissionToDocument(*submission)
	doc.ID = primitive.NewObjectID()
	if _, err := r.submissions.InsertOne(ctx, doc); err != nil {
		return err
	}
	submission.ID = doc.ID.Hex()
	return nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	objectID, err := parseObjectID(id, application.ErrSubmissionNotFound)
	if err != nil {
		return nil, err
	}
	var doc SubmissionDocument
	if err := r.submissions.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, translateNotFound(err, application.ErrSubmissionNotFound)
	}
	submission := mapSubmissionDocument(doc)
	return &submission, nil
}

// Find はフォローアップ状況・レベル・キーワードで絞り込み、新しい順に返す。
func (r *SubmissionRepository) Find(ctx context.Context, filter application.SubmissionFilter, paging application.Paging) ([]domain.Submission, error) {
	mongoFilter := buildSubmissionFilter(filter)

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		if paging.Page > 1 {
			skip := int64((paging.Page - 1) * paging.Limit)
			findOpts.SetSkip(skip)
		}
	}

	cursor, err := r.submissions.Find(ctx, mongoFilter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	submissions := make([]domain.Submission, 0)
	for cursor.Next(ctx) {
		var doc SubmissionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		submissions = append(submissions, mapSubmissionDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}

func buildSubmissionFilter(filter application.SubmissionFilter) bson.M {
	mongoFilter := bson.M{}
	if status := strings.TrimSpace(filter.FollowUpStatus); status != "" {
		mongoFilter["followUpStatus"] = strings.ToLower(status)
	}
	if level := strings.TrimSpace(filter.ScoreLevel); level != "" {
		pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(level) + "$", Options: "i"}
		mongoFilter["scoreLevel"] = pattern
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"respondentName": pattern},
			bson.M{"respondentEmail": pattern},
			bson.M{"respondentCompany": pattern},
		}
	}
	return mongoFilter
}

// UpdateFollowUp は followUpStatus / followUpNotes / updatedAt だけを $set する。
func (r *SubmissionRepository) UpdateFollowUp(ctx context.Context, id string, status domain.FollowUpStatus, notes string, at time.Time) error {
	return r.set(ctx, id, bson.M{
		"followUpStatus": status.String(),
		"followUpNotes":  notes,
		"updatedAt":      at,
	})
}

func (r *SubmissionRepository) MarkReportSent(ctx context.Context, id string, at time.Time) error {
	return r.set(ctx, id, bson.M{"reportSentAt": at})
}

func (r *SubmissionRepository) set(ctx context.Context, id string, fields bson.M) error {
	objectID, err := parseObjectID(id, application.ErrSubmissionNotFound)
	if err != nil {
		return err
	}
	result, err := r.submissions.UpdateByID(ctx, objectID, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrSubmissionNotFound
	}
	return nil
}
