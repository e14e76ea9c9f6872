package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpapi "artistone/internal/http"
	"artistone/internal/http/handlers"
	"artistone/internal/infra"
	"artistone/internal/pdf"
	"artistone/internal/providers/bio"
	"artistone/internal/providers/enhance"
	"artistone/internal/providers/replicate"
	"artistone/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	uploads, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload storage")
	}
	generated, err := storage.NewFileStore(cfg.GeneratedDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare generated storage")
	}
	logger.Info().
		Str("uploads", uploads.BasePath()).
		Str("generated", generated.BasePath()).
		Msg("storage ready")

	replicateClient := replicate.NewClient(replicate.Options{
		APIToken: cfg.ReplicateAPIToken,
		BaseURL:  cfg.ReplicateBaseURL,
		Logger:   &logger,
	})
	if !replicateClient.HasCredentials() {
		logger.Warn().Msg("REPLICATE_API_TOKEN is not set, photo enhancement will fail until configured")
	}

	enhancer := enhance.NewOrchestrator(enhance.OrchestratorOptions{
		Strategies: []enhance.Strategy{
			enhance.NewProPipeline(replicateClient),
			enhance.NewRealESRGAN(replicateClient),
			enhance.NewCodeFormer(replicateClient),
		},
		Logger: &logger,
	})

	var bioGen bio.Generator = bio.NewStaticGenerator()
	if cfg.OpenAIAPIKey != "" {
		gen, err := bio.NewOpenAIGenerator(bio.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			Fallback:     bio.NewStaticGenerator(),
			OnFallback: func(reason string, err error) {
				logger.Warn().Err(err).Str("reason", reason).Msg("bio generation fell back to templates")
			},
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure bio generator")
		}
		bioGen = gen
	} else {
		logger.Warn().Msg("OPENAI_API_KEY is not set, bios will use the template generator")
	}

	chrome := pdf.NewChromeRenderer(pdf.ChromeOptions{
		ExecPath:     cfg.ChromePath,
		FontsBaseURL: cfg.BaseURL + "/fonts",
	})
	renderer := pdf.NewRenderer(chrome, pdf.NewFallbackRenderer(cfg.FontsDir), &logger)
	if !chrome.Available() {
		logger.Warn().Msg("no chrome binary found, documents will use the native renderer")
	}

	app := handlers.NewApp(cfg, logger)
	app.Uploads = uploads
	app.Generated = generated
	app.Enhancer = enhancer
	app.Bio = bioGen
	app.PDF = renderer
	app.Chrome = chrome

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
