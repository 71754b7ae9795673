package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/core/ports"
	"github.com/kirillkom/x-sentiment/internal/infrastructure/resilience"
)

const (
	analysisPrefix    = "@XS"
	defaultJobTimeout = 15 * time.Minute
)

const (
	CommandAnalysis = "analysis"
	CommandHelp     = "help"
	CommandExamples = "examples"
	CommandStatus   = "status"
	CommandHello    = "hello"
	CommandIgnored  = "ignored"
)

type Message struct {
	Content   string `json:"content"`
	Author    string `json:"author,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
}

type Reply struct {
	Command  string   `json:"command"`
	Messages []string `json:"messages"`
	JobID    string   `json:"job_id,omitempty"`
}

// BreakerStates reports circuit breaker state per outbound operation.
type BreakerStates interface {
	States() []resilience.OperationState
}

// StrategyCounter reports how past analyses were resolved.
type StrategyCounter interface {
	CountByStrategy(ctx context.Context) (map[string]int, error)
}

// notifierDetacher is implemented by analyzers that post their own report.
type notifierDetacher interface {
	WithoutNotifier() ports.SentimentAnalyzer
}

type Options struct {
	Queue      ports.JobQueue
	Notifier   ports.Notifier
	Breakers   BreakerStates
	History    StrategyCounter
	JobTimeout time.Duration
	// Spawn runs offloaded jobs. Defaults to a plain goroutine.
	Spawn func(func())
}

// Dispatcher routes chat commands. Analyses are offloaded: queued when a job
// queue is configured, otherwise run in the background with the result
// delivered through the notifier.
type Dispatcher struct {
	analyzer ports.SentimentAnalyzer
	opts     Options
	now      func() time.Time
}

func NewDispatcher(analyzer ports.SentimentAnalyzer, opts Options) *Dispatcher {
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = defaultJobTimeout
	}
	if opts.Spawn == nil {
		opts.Spawn = func(fn func()) { go fn() }
	}
	// The dispatcher renders and delivers the result itself.
	if detacher, ok := analyzer.(notifierDetacher); ok && opts.Notifier != nil {
		analyzer = detacher.WithoutNotifier()
	}
	return &Dispatcher{analyzer: analyzer, opts: opts, now: time.Now}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (Reply, error) {
	content := strings.TrimSpace(msg.Content)
	switch {
	case strings.HasPrefix(content, analysisPrefix):
		return d.handleAnalysis(ctx, msg, strings.TrimSpace(strings.TrimPrefix(content, analysisPrefix)))
	case hasCommand(content, "!help", "!bantuan"):
		return Reply{Command: CommandHelp, Messages: []string{helpText}}, nil
	case hasCommand(content, "!example", "!contoh"):
		return Reply{Command: CommandExamples, Messages: []string{examplesText}}, nil
	case hasCommand(content, "!status"):
		return Reply{Command: CommandStatus, Messages: []string{d.statusText(ctx)}}, nil
	case hasCommand(content, "!hello", "!halo"):
		return Reply{Command: CommandHello, Messages: []string{greeting(msg.Author)}}, nil
	default:
		return Reply{Command: CommandIgnored}, nil
	}
}

func (d *Dispatcher) handleAnalysis(ctx context.Context, msg Message, query string) (Reply, error) {
	if query == "" {
		return Reply{Command: CommandAnalysis, Messages: []string{"❌ **Kesalahan Format**\n" + helpText}}, nil
	}
	validated, err := ValidateQuery(query)
	if err != nil {
		return Reply{
			Command:  CommandAnalysis,
			Messages: []string{"❌ **Error Validasi Query:** " + validationMessage(err)},
		}, nil
	}

	job := domain.AnalysisJob{
		ID:        uuid.NewString(),
		Query:     validated,
		Requester: msg.Author,
		ChannelID: msg.ChannelID,
		CreatedAt: d.now().UTC(),
	}

	if d.opts.Queue != nil {
		if err := d.opts.Queue.PublishAnalysisJob(ctx, job); err != nil {
			slog.Warn("analysis_job_publish_failed", "job_id", job.ID, "error", err)
			d.runLocally(job)
		}
	} else {
		d.runLocally(job)
	}

	started := fmt.Sprintf(
		"🔍 **Memulai Analisis Sentimen**\n**Query:** `%s`\n⏳ Proses mungkin memakan waktu beberapa menit",
		validated,
	)
	return Reply{Command: CommandAnalysis, JobID: job.ID, Messages: []string{started}}, nil
}

func (d *Dispatcher) runLocally(job domain.AnalysisJob) {
	d.opts.Spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.opts.JobTimeout)
		defer cancel()
		if err := d.RunJob(ctx, job); err != nil {
			slog.Error("analysis_job_failed", "job_id", job.ID, "error", err)
		}
	})
}

// RunJob executes a queued analysis and delivers the rendered result.
func (d *Dispatcher) RunJob(ctx context.Context, job domain.AnalysisJob) error {
	analysis, err := d.analyzer.Analyze(ctx, job.Query)
	if err != nil {
		d.deliver(ctx, job, []string{RenderFailure(job.Query, err)})
		return fmt.Errorf("analyze job %s: %w", job.ID, err)
	}

	messages := RenderAnalysis(analysis)
	if job.Requester != "" && analysis.Status == domain.AnalysisCompleted {
		messages[0] += "\n\n_Analisis untuk " + job.Requester + "_"
	}
	d.deliver(ctx, job, messages)
	slog.Info("analysis_job_completed",
		"job_id", job.ID,
		"analysis_id", analysis.ID,
		"status", analysis.Status,
	)
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, job domain.AnalysisJob, messages []string) {
	if d.opts.Notifier == nil {
		return
	}
	for _, message := range messages {
		if err := d.opts.Notifier.Notify(ctx, message); err != nil {
			slog.Warn("chat_reply_failed", "job_id", job.ID, "error", err)
			return
		}
	}
}

func (d *Dispatcher) statusText(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(statusHeader)

	if d.opts.Breakers != nil {
		states := d.opts.Breakers.States()
		if len(states) > 0 {
			b.WriteString("\n\n**🔌 Layanan:**")
			for _, s := range states {
				fmt.Fprintf(&b, "\n- `%s`: %s", s.Operation, s.State)
			}
		}
	}

	if d.opts.History != nil {
		counts, err := d.opts.History.CountByStrategy(ctx)
		switch {
		case err != nil && !errors.Is(err, context.Canceled):
			slog.Warn("status_history_failed", "error", err)
		case len(counts) > 0:
			b.WriteString("\n\n**🗂️ Riwayat Analisis per Strategi:**")
			strategies := make([]string, 0, len(counts))
			for strategy := range counts {
				strategies = append(strategies, strategy)
			}
			sort.Strings(strategies)
			for _, strategy := range strategies {
				fmt.Fprintf(&b, "\n- %s: %d", strategy, counts[strategy])
			}
		}
	}
	return b.String()
}

func greeting(author string) string {
	name := strings.TrimSpace(author)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		"👋 Halo %s! Saya adalah X Sentiment Analysis Bot. Gunakan `@XS [query]` untuk menganalisis sentimen tweet atau `!help` untuk bantuan.",
		name,
	)
}

func hasCommand(content string, commands ...string) bool {
	for _, command := range commands {
		if strings.HasPrefix(content, command) {
			return true
		}
	}
	return false
}
