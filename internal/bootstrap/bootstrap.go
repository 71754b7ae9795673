package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/x-sentiment/internal/adapters/chat"
	"github.com/kirillkom/x-sentiment/internal/config"
	"github.com/kirillkom/x-sentiment/internal/core/ports"
	"github.com/kirillkom/x-sentiment/internal/core/usecase"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/harvest"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/llm/groq"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/notify/discord"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/queue/nats"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/resilience"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/sentiment/lexicon"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/textproc"
	"github.com/kirillkom/x-sentiment/internal/observability/metrics"
)

type Options struct {
	Service string
	// Registerer receives pipeline metrics. Nil disables them.
	Registerer prometheus.Registerer
	// Runner overrides the subprocess runner used by the fetcher.
	Runner harvest.Runner
	// SkipQueue leaves the job queue unconnected even when NATS_URL is set.
	SkipQueue bool
}

type App struct {
	Config config.Config

	Resolver *usecase.Resolver
	Analysis *usecase.AnalysisService
	Chat     *chat.Dispatcher
	Breakers Breakers

	// Optional parts are nil when not configured.
	History  *postgres.AnalysisRepository
	Queue    *nats.Queue
	Notifier *discord.WebhookNotifier

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	var pipelineMetrics *metrics.PipelineMetrics
	var observer ports.ResolveObserver
	var callObserver groq.CallObserver
	var onStateChange func(operation, from, to string)
	if opts.Registerer != nil {
		pipelineMetrics = metrics.NewPipelineMetrics(opts.Registerer, opts.Service)
		observer = pipelineMetrics
		callObserver = pipelineMetrics
		onStateChange = pipelineMetrics.BreakerStateChanged
	}

	completionPolicy := resilience.SingleAttempt()
	completionPolicy.OnStateChange = onStateChange
	completionExec := resilience.NewExecutor(completionPolicy)

	deliveryPolicy := resilience.DefaultConfig()
	deliveryPolicy.OnStateChange = onStateChange
	deliveryExec := resilience.NewExecutor(deliveryPolicy)

	completion := groq.New(groq.Config{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
		Timeout: cfg.GroqTimeout,
	}, completionExec, callObserver)
	if !completion.Configured() {
		slog.Warn("completion_service_unconfigured", "detail", "query rewriting and complexity checks use local fallbacks")
	}

	runner := opts.Runner
	if runner == nil {
		runner = harvest.ExecRunner{}
	}
	fetcher := harvest.NewFetcher(harvest.Config{
		AuthToken:   cfg.TwitterAuthToken,
		WorkDir:     cfg.HarvestWorkDir,
		Timeout:     cfg.HarvestTimeout,
		MinInterval: cfg.HarvestMinInterval,
		KeepFiles:   cfg.HarvestKeepFiles,
	}, runner)

	resolver := usecase.NewResolver(
		usecase.NewQueryRewriter(completion),
		usecase.NewComplexityAdvisor(completion),
		fetcher,
		observer,
		usecase.ResolverOptions{
			FetchLimit:          cfg.DefaultLimit,
			MaxFallbackAttempts: cfg.MaxFallbackAttempts,
		},
	)

	var translator ports.Translator
	if cfg.TranslationEnabled && completion.Configured() {
		translator = groq.NewTranslator(completion)
	}

	var writer ports.ResultWriter
	storage, err := localfs.New(cfg.ResultsDir, cfg.DefaultFilename)
	if err != nil {
		slog.Warn("result_writer_disabled", "path", cfg.ResultsDir, "error", err)
	} else {
		writer = storage
	}

	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	app := &App{
		Config:   cfg,
		Resolver: resolver,
		Breakers: Breakers{completionExec, deliveryExec},
	}

	var repo ports.AnalysisRepository
	if cfg.PostgresDSN != "" {
		db, err := openHistory(ctx, cfg.PostgresDSN)
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, func() { _ = db.Close() })
		app.History = postgres.NewAnalysisRepository(db)
		repo = app.History
	}

	var notifier ports.Notifier
	if cfg.DiscordWebhookURL != "" {
		app.Notifier = discord.NewWebhookNotifier(cfg.DiscordWebhookURL, deliveryExec)
		notifier = app.Notifier
	}

	var queue ports.JobQueue
	if cfg.NATSURL != "" && !opts.SkipQueue {
		q, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{ResilienceExecutor: deliveryExec})
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("init job queue: %w", err)
		}
		closers = append(closers, q.Close)
		app.Queue = q
		queue = q
	}

	app.Analysis = usecase.NewAnalysisService(
		resolver,
		textproc.NewPreprocessor(),
		translator,
		lexicon.NewScorer(),
		writer,
		repo,
		notifier,
		usecase.AnalysisOptions{TranslationConcurrency: cfg.TranslationConcurrency},
	)

	chatOpts := chat.Options{Queue: queue, Breakers: app.Breakers}
	if app.Notifier != nil {
		chatOpts.Notifier = app.Notifier
	}
	if app.History != nil {
		chatOpts.History = app.History
	}
	app.Chat = chat.NewDispatcher(app.Analysis, chatOpts)

	app.closeFn = cleanup
	return app, nil
}

func openHistory(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := postgres.OpenDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// Breakers merges breaker state from several executors.
type Breakers []*resilience.Executor

func (b Breakers) States() []resilience.OperationState {
	var out []resilience.OperationState
	for _, executor := range b {
		out = append(out, executor.States()...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}
