package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/report"
	"github.com/sngm3741/growth-iq/api/internal/config"
	"github.com/sngm3741/growth-iq/api/internal/infrastructure/mail"
	"github.com/sngm3741/growth-iq/api/internal/infrastructure/messenger"
	mongodoc "github.com/sngm3741/growth-iq/api/internal/infrastructure/mongo"
	adminhttp "github.com/sngm3741/growth-iq/api/internal/interfaces/http/admin"
	publichttp "github.com/sngm3741/growth-iq/api/internal/interfaces/http/public"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger         *log.Logger
	client         *mongo.Client
	pings          *mongo.Collection
	location       *time.Location
	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	addr           string
	allowedOrigins []string
	publicHandler  *publichttp.Handler
	adminHandler   *adminhttp.Handler
}

// Run はHTTPサーバーを起動し、graceful shutdown まで待機する。
func (s *Server) Run() error {
	if err := s.ensureSamplePing(context.Background()); err != nil {
		s.logger.Printf("サンプル ping ドキュメントの用意に失敗しました: %v", err)
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// routes は Public/Admin のルーティングとミドルウェアを組み立てる。
func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	if s.client != nil {
		router.Get("/healthz", s.healthHandler())
		router.Get("/ping", s.pingHandler())
	}
	if s.publicHandler != nil {
		s.publicHandler.Register(router)
	}
	if s.adminHandler != nil {
		router.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware)
			s.adminHandler.Register(r)
		})
	}
	return router
}

// normaliseBaseURL は入力文字列をトリムして末尾スラッシュを削除したURLを返す。
func normaliseBaseURL(input string) string {
	trimmed := strings.TrimSpace(input)
	return strings.TrimRight(trimmed, "/")
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認を行う。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

type pingDocument struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// pingHandler は `pings` コレクションから最新レコードを返す検証用エンドポイント。
func (s *Server) pingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		var doc pingDocument
		err := s.pings.FindOne(ctx, bson.D{}, opts).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.writeJSON(w, http.StatusNotFound, map[string]string{
				"status":  "not_found",
				"message": "ping コレクションにドキュメントが存在しません",
			})
			return
		}
		if err != nil {
			s.logger.Printf("ping コレクションのドキュメント取得に失敗: %v", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "ping コレクションのドキュメント取得に失敗しました",
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]any{
			"message":   doc.Message,
			"createdAt": doc.CreatedAt.In(s.location),
			"id":        doc.ID.Hex(),
		})
	}
}

// ensureSamplePing は pings コレクションに最低1件のドキュメントがある状態を保証する。
func (s *Server) ensureSamplePing(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := s.pings.CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.pings.InsertOne(ctx, bson.M{
		"message":   "pong",
		"createdAt": time.Now().In(s.location),
	})
	return err
}

// writeJSON は JSON レスポンスの共通書き込み処理。
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && s.logger != nil {
		s.logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と Mongo クライアントを受け取り、リポジトリ・サービス・ハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client) *Server {
	loc := cfg.Location()
	database := client.Database(cfg.MongoDatabase)

	questionRepo := mongodoc.NewQuestionRepository(database, cfg.QuestionCollection)
	submissionRepo := mongodoc.NewSubmissionRepository(database, cfg.SubmissionCollection)
	templateRepo := mongodoc.NewTemplateRepository(database, cfg.TemplateCollection)
	failureRepo := mongodoc.NewFailedDeliveryRepository(database, cfg.FailedDeliveryCollection)

	questionService := application.NewQuestionService(questionRepo)
	submissionService := application.NewSubmissionService(questionRepo, submissionRepo, loc)
	templateService := application.NewTemplateService(templateRepo, cfg.ServerLog)
	reportService := application.NewReportService(application.ReportServiceConfig{
		Submissions: submissionRepo,
		Templates:   templateService,
		Renderer:    report.NewRenderer(),
		Mailer:      newMailer(cfg),
		Failures:    failureRepo,
		Logger:      cfg.ServerLog,
	})

	var notifier application.LeadNotifier
	leadNotifier := messenger.NewLeadNotifier(messenger.Config{
		Endpoint:           normaliseBaseURL(cfg.MessengerEndpoint),
		DiscordDestination: cfg.DiscordDestination,
		SlackDestination:   cfg.SlackDestination,
		AdminBaseURL:       normaliseBaseURL(cfg.AdminSubmissionBaseURL),
		Timeout:            cfg.MessengerTimeout,
		Logger:             cfg.ServerLog,
	})
	if leadNotifier.Enabled() {
		notifier = leadNotifier
	} else {
		cfg.ServerLog.Printf("メッセンジャー通知は無効です（MESSENGER_GATEWAY_URL または送信先が未設定）")
	}

	pipeline := application.NewAssessmentPipeline(application.PipelineConfig{
		Submissions: submissionService,
		Reports:     reportService,
		Notifier:    notifier,
		Failures:    failureRepo,
		Logger:      cfg.ServerLog,
	})
	deliveryService := application.NewDeliveryService(application.DeliveryServiceConfig{
		Failures:    failureRepo,
		Submissions: submissionRepo,
		Reports:     reportService,
		Notifier:    notifier,
		Logger:      cfg.ServerLog,
	})

	return &Server{
		logger:         cfg.ServerLog,
		client:         client,
		pings:          database.Collection(cfg.PingCollection),
		location:       loc,
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		publicHandler: publichttp.NewHandler(publichttp.Config{
			Logger:      cfg.ServerLog,
			Questions:   questionService,
			Submissions: submissionService,
			Reports:     reportService,
			Assessments: pipeline,
		}),
		adminHandler: adminhttp.NewHandler(adminhttp.Config{
			Logger:      cfg.ServerLog,
			Questions:   questionService,
			Submissions: submissionService,
			Templates:   templateService,
			Reports:     reportService,
			Deliveries:  deliveryService,
		}),
	}
}

// newMailer は MAIL_PROVIDER に応じて送信手段を選ぶ。console は標準出力に書き出すだけ。
func newMailer(cfg config.Config) application.ReportMailer {
	if cfg.MailProvider == config.MailProviderSendgrid {
		return mail.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFrom)
	}
	if cfg.ServerLog != nil {
		cfg.ServerLog.Printf("警告: MAIL_PROVIDER=console のためレポートメールは送信されず標準出力に書き出されます")
	}
	return mail.NewConsoleMailer(cfg.MailFrom, os.Stdout)
}
