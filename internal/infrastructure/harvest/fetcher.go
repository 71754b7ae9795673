package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

const (
	defaultPackage     = "tweet-harvest@2.6.1"
	defaultTimeout     = 300 * time.Second
	alternativeTimeout = 180 * time.Second
	probeTimeout       = 30 * time.Second
	outputDir          = "tweets-data"
)

var probeVersions = []string{
	"tweet-harvest@2.6.1",
	"tweet-harvest@2.6.0",
	"tweet-harvest@2.5.0",
	"tweet-harvest",
}

type Config struct {
	AuthToken   string
	WorkDir     string
	Timeout     time.Duration
	MinInterval time.Duration
	// KeepFiles leaves harvest CSV output on disk after it has been read.
	KeepFiles bool
}

// Fetcher runs the tweet-harvest CLI through npx and reads its CSV output.
// Harvest failures are logged and yield no rows; a missing token is returned
// as a misconfiguration error.
type Fetcher struct {
	cfg     Config
	runner  Runner
	limiter *rate.Limiter

	versionOnce sync.Once
	version     string
}

func NewFetcher(cfg Config, runner Runner) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if strings.TrimSpace(cfg.WorkDir) == "" {
		cfg.WorkDir = "."
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &Fetcher{
		cfg:     cfg,
		runner:  runner,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	if strings.TrimSpace(f.cfg.AuthToken) == "" {
		return nil, domain.WrapError(domain.ErrMisconfigured, "harvest fetch", errors.New("TWITTER_AUTH_TOKEN is not set"))
	}
	if limit <= 0 {
		limit = 100
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("harvest rate limit wait: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(f.cfg.WorkDir, outputDir), 0o755); err != nil {
		return nil, fmt.Errorf("create harvest output dir: %w", err)
	}

	filename := "harvest-" + uuid.NewString() + ".csv"
	defer f.cleanup(filename)

	pkg := f.packageVersion(ctx)
	args := harvestArgs(pkg, filename, query, limit, f.cfg.AuthToken)
	out, err := f.run(ctx, f.cfg.Timeout, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Error("harvest_failed", "package", pkg, "query", query, "error", err, "output", tail(out, 400))

		alt := append([]string{"-y"}, harvestArgs(defaultPackage, filename, query, limit, f.cfg.AuthToken)...)
		if out, err = f.run(ctx, alternativeTimeout, alt...); err != nil {
			slog.Error("harvest_alternative_failed", "query", query, "error", err, "output", tail(out, 400))
			return []domain.Post{}, nil
		}
		slog.Info("harvest_alternative_succeeded", "query", query)
	}

	path, ok := f.locate(filename)
	if !ok {
		slog.Warn("harvest_output_missing", "query", query, "file", filename)
		return []domain.Post{}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		slog.Error("harvest_output_open_failed", "path", path, "error", err)
		return []domain.Post{}, nil
	}
	defer file.Close()

	posts, err := readPosts(file)
	if err != nil {
		slog.Error("harvest_output_parse_failed", "path", path, "rows", len(posts), "error", err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	slog.Info("harvest_completed", "query", query, "rows", len(posts), "path", path)
	return posts, nil
}

func harvestArgs(pkg, filename, query string, limit int, token string) []string {
	return []string{
		pkg,
		"-o", filename,
		"-s", query,
		"--tab", "LATEST",
		"-l", strconv.Itoa(limit),
		"--token", token,
	}
}

func (f *Fetcher) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := f.runner.Run(runCtx, f.cfg.WorkDir, "npx", args...)
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("harvest timed out after %s: %w", timeout, runCtx.Err())
	}
	return out, err
}

// packageVersion probes known tweet-harvest versions once and caches the first one
// that answers --version. When none answers the pinned default is used. The probe
// outlives the caller's cancellation since its result is shared by every fetch.
func (f *Fetcher) packageVersion(ctx context.Context) string {
	f.versionOnce.Do(func() {
		f.version = defaultPackage
		probeCtx := context.WithoutCancel(ctx)
		for _, candidate := range probeVersions {
			if _, err := f.run(probeCtx, probeTimeout, candidate, "--version"); err == nil {
				f.version = candidate
				slog.Info("harvest_version_selected", "package", candidate)
				return
			}
		}
		slog.Warn("harvest_version_probe_failed", "package", f.version)
	})
	return f.version
}

func (f *Fetcher) locate(filename string) (string, bool) {
	for _, path := range []string{
		filepath.Join(f.cfg.WorkDir, outputDir, filename),
		filepath.Join(f.cfg.WorkDir, filename),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func (f *Fetcher) cleanup(filename string) {
	if f.cfg.KeepFiles {
		return
	}
	_ = os.Remove(filepath.Join(f.cfg.WorkDir, outputDir, filename))
	_ = os.Remove(filepath.Join(f.cfg.WorkDir, filename))
}
