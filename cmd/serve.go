package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"linkup_server/config"
	applog "linkup_server/logger"
	"linkup_server/routes"
	"linkup_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and the follow-up poller",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx := context.Background()

	logger, err := applog.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the linkup-server", zap.String("version", version))

	deps, err := buildServices(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("building services", zap.Error(err))
	}

	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to LinkUp")
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	routes.RegisterMatchRoutes(r, deps.matches, deps.recorder)
	routes.RegisterFollowUpRoutes(r, deps.followUps)
	routes.RegisterMatchRequestRoutes(r, deps.requests)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	deps.followUps.StartPolling(ctx, cfg.PollInterval)

	logger.Info("starting the http server", zap.String("port", cfg.Port))
	logger.Fatal("server stopped", zap.Error(http.ListenAndServe(":"+cfg.Port, corsHandler)))
}

type serverDeps struct {
	matches   *services.MatchService
	recorder  *services.MatchRecorderService
	followUps *services.FollowUpService
	requests  *services.MatchRequestService
}

func buildServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*serverDeps, error) {
	client, err := services.InitializeDynamoDBClient(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("initializing dynamodb client: %w", err)
	}
	dynamo := &services.DynamoService{Client: client, Logger: logger}

	profiles, err := services.NewUserProfileService(dynamo, logger)
	if err != nil {
		return nil, err
	}

	matchStore := &services.DynamoMatchStore{Dynamo: dynamo, Logger: logger}
	followUpStore := &services.DynamoFollowUpStore{Dynamo: dynamo, Logger: logger}
	requestStore := &services.DynamoRequestStore{Dynamo: dynamo, Logger: logger}

	matches := &services.MatchService{
		Profiles:    profiles,
		Scorer:      services.NewCompatibilityScorer(*cfg.Scoring),
		Icebreakers: buildIcebreakers(ctx, cfg.Gemini, logger),
		Logger:      logger,
	}

	recorder := &services.MatchRecorderService{Matches: matchStore, Logger: logger}

	followUps := &services.FollowUpService{
		FollowUps: followUpStore,
		Matches:   matchStore,
		Notifier:  &services.LogNotifier{Logger: logger},
		Logger:    logger,
	}

	requests := &services.MatchRequestService{Requests: requestStore, Logger: logger}

	return &serverDeps{
		matches:   matches,
		recorder:  recorder,
		followUps: followUps,
		requests:  requests,
	}, nil
}

// buildIcebreakers returns nil when no api key is configured, which keeps
// icebreaker enrichment off without failing startup.
func buildIcebreakers(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) *services.IcebreakerService {
	if cfg == nil || cfg.APIKey == "" {
		logger.Info("icebreaker enrichment disabled", zap.String("reason", "no gemini api key configured"))
		return nil
	}

	generator, err := services.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		logger.Warn("icebreaker enrichment disabled", zap.Error(err))
		return nil
	}

	return &services.IcebreakerService{
		Generator: generator,
		Logger:    logger,
		Timeout:   cfg.Timeout,
	}
}
