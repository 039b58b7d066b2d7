package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
	mongodoc "github.com/sngm3741/growth-iq/api/internal/infrastructure/mongo"
)

type seedOptions struct {
	envName         string
	sampleCount     int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	questions        string
	submissions      string
	templates        string
	failedDeliveries string
}

var sampleNames = []string{"Avery Brooks", "Jordan Lee", "Morgan Patel", "Riley Chen", "Casey Nguyen", "Taylor Reyes", "Quinn Walker", "Jamie Flores"}

var sampleCompanies = []string{"Brooks Family Dental", "Lee & Sons Roofing", "Patel Logistics", "Chen Bakery Group", "Nguyen Auto Care", "", "Walker Landscaping", "Flores Accounting"}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg := collections{
		questions:        envOrDefault("QUESTION_COLLECTION", "quiz_questions"),
		submissions:      envOrDefault("SUBMISSION_COLLECTION", "quiz_submissions"),
		templates:        envOrDefault("TEMPLATE_COLLECTION", "report_templates"),
		failedDeliveries: envOrDefault("FAILED_DELIVERY_COLLECTION", "failed_deliveries"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "growth-iq")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		if err := dropCollections(ctx, db, cfg); err != nil {
			log.Fatalf("コレクション削除に失敗しました: %v", err)
		}
		log.Printf("既存コレクションを削除しました")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	questionRepo := mongodoc.NewQuestionRepository(db, cfg.questions)
	questionCount, err := seedQuestions(ctx, questionRepo)
	if err != nil {
		log.Fatalf("設問データの挿入に失敗しました: %v", err)
	}

	templateRepo := mongodoc.NewTemplateRepository(db, cfg.templates)
	templateCreated, err := seedDefaultTemplate(ctx, templateRepo)
	if err != nil {
		log.Fatalf("レポートテンプレートの挿入に失敗しました: %v", err)
	}

	submissionRepo := mongodoc.NewSubmissionRepository(db, cfg.submissions)
	submissions := application.NewSubmissionService(questionRepo, submissionRepo, time.UTC)
	rng := rand.New(rand.NewSource(opts.randomSeed))
	sampleCount, err := seedSamples(ctx, submissions, rng, opts.sampleCount)
	if err != nil {
		log.Fatalf("サンプル提出の挿入に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: questions=%d defaultTemplate=%t samples=%d", questionCount, templateCreated, sampleCount)
	log.Printf("Mongo: %s / %s (env=%s)", mongoURI, dbName, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "読み込む env ファイル名（../env/<env>.env）")
	flag.IntVar(&opts.sampleCount, "samples", 12, "生成するサンプル提出の件数")
	flag.BoolVar(&opts.dropCollections, "drop", false, "既存コレクションを削除してから投入する")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "乱数シード")
	flag.Parse()
	if opts.sampleCount < 0 {
		opts.sampleCount = 0
	}
	return opts
}

// loadEnvFiles は shared.env と <env>.env を読み込む。存在しないファイルは無視する。
func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%s の読み込みに失敗しました: %w", file, err)
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) error {
	for _, name := range []string{cfg.questions, cfg.submissions, cfg.templates, cfg.failedDeliveries} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return err
		}
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	questionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "questionNumber", Value: 1}},
			Options: options.Index().SetName("uniq_question_number").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetName("idx_question_active_order"),
		},
	}
	if _, err := db.Collection(cfg.questions).Indexes().CreateMany(ctx, questionIndexes); err != nil {
		return err
	}

	submissionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_submission_created"),
		},
		{
			Keys:    bson.D{{Key: "followUpStatus", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_submission_followup_created"),
		},
		{
			Keys:    bson.D{{Key: "scoreLevel", Value: 1}},
			Options: options.Index().SetName("idx_submission_score_level"),
		},
		{
			Keys:    bson.D{{Key: "respondentEmail", Value: 1}},
			Options: options.Index().SetName("idx_submission_email").SetSparse(true),
		},
	}
	if _, err := db.Collection(cfg.submissions).Indexes().CreateMany(ctx, submissionIndexes); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.templates).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "activatedAt", Value: -1}},
		Options: options.Index().SetName("idx_template_active_activated"),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.failedDeliveries).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("idx_failed_status_created"),
		},
		{
			Keys:    bson.D{{Key: "submissionId", Value: 1}},
			Options: options.Index().SetName("idx_failed_submission"),
		},
	}); err != nil {
		return err
	}

	return nil
}

// seedQuestions は設問バンクが空の場合だけ既定の 24 問を投入する。
func seedQuestions(ctx context.Context, repo application.QuestionRepository) (int, error) {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Printf("設問は登録済みのためスキップします (%d 件)", len(existing))
		return 0, nil
	}

	now := time.Now().UTC()
	inserted := 0
	for _, q := range domain.DefaultQuestionBank() {
		q := q
		q.CreatedAt = now
		q.UpdatedAt = now
		if err := repo.Create(ctx, &q); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// seedDefaultTemplate は既定テンプレートを無効状態で保存する。有効化は管理画面から行う。
func seedDefaultTemplate(ctx context.Context, repo application.TemplateRepository) (bool, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	now := time.Now().UTC()
	tmpl := domain.DefaultTemplate()
	tmpl.IsActive = false
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	if err := repo.Create(ctx, &tmpl); err != nil {
		return false, err
	}
	return true, nil
}

// seedSamples は回答者ごとに傾向（全体の底上げ値）を変えたランダム回答を提出する。
func seedSamples(ctx context.Context, submissions application.SubmissionService, rng *rand.Rand, count int) (int, error) {
	questions := domain.DefaultQuestionBank()
	for i := 0; i < count; i++ {
		bias := rng.Intn(domain.MaxScaleValue) + 1
		answers := make(map[string]int, len(questions))
		for _, q := range questions {
			value := bias + rng.Intn(3) - 1
			if value < domain.MinScaleValue {
				value = domain.MinScaleValue
			}
			if value > domain.MaxScaleValue {
				value = domain.MaxScaleValue
			}
			answers[strconv.Itoa(q.QuestionNumber)] = value
		}

		name := sampleNames[i%len(sampleNames)]
		email := ""
		if i%3 != 2 {
			email = strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
		}
		if _, err := submissions.Submit(ctx, application.SubmitCommand{
			Name:    name,
			Email:   email,
			Company: sampleCompanies[i%len(sampleCompanies)],
			Answers: answers,
		}); err != nil {
			return i, err
		}
	}
	return count, nil
}
