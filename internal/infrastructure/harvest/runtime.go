package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const installTimeout = 120 * time.Second

var installPackages = []string{"tweet-harvest@2.6.1", "tweet-harvest"}

type RuntimeStatus struct {
	NodeVersion string
	NpxVersion  string
}

// CheckRuntime verifies that node and npx are installed and report a version.
func CheckRuntime(ctx context.Context, runner Runner) (RuntimeStatus, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	var status RuntimeStatus
	for _, tool := range []struct {
		name string
		dst  *string
	}{
		{name: "node", dst: &status.NodeVersion},
		{name: "npx", dst: &status.NpxVersion},
	} {
		if _, err := runner.LookPath(tool.name); err != nil {
			return status, fmt.Errorf("%s not found in PATH: %w", tool.name, err)
		}
		out, err := runner.Run(ctx, "", tool.name, "--version")
		if err != nil {
			return status, fmt.Errorf("%s --version: %w", tool.name, err)
		}
		*tool.dst = strings.TrimSpace(string(out))
		slog.Info("runtime_found", "tool", tool.name, "version", *tool.dst)
	}
	return status, nil
}

// Install installs tweet-harvest globally, trying the pinned version before latest.
// It returns the installed package spec.
func Install(ctx context.Context, runner Runner) (string, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	if _, err := CheckRuntime(ctx, runner); err != nil {
		return "", fmt.Errorf("node.js and npx are required, see https://nodejs.org/: %w", err)
	}

	var errs []error
	for _, pkg := range installPackages {
		runCtx, cancel := context.WithTimeout(ctx, installTimeout)
		out, err := runner.Run(runCtx, "", "npm", "install", "-g", pkg)
		cancel()
		if err == nil {
			slog.Info("harvest_installed", "package", pkg)
			return pkg, nil
		}
		slog.Warn("harvest_install_failed", "package", pkg, "error", err, "output", tail(out, 400))
		errs = append(errs, err)
	}
	return "", fmt.Errorf("install tweet-harvest: %w", errors.Join(errs...))
}
