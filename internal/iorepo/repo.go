// Package iorepo maintains the local checkout of the BSData rules
// repository. Git is treated as an opaque file-delivery mechanism: the
// checkout is cloned once and pulled on subsequent fetches.
package iorepo

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/hhlist/rosterdb/pkg/config"
	"github.com/hhlist/rosterdb/pkg/lifecycle"
)

const (
	cloneTimeout = 120 * time.Second
	pullTimeout  = 60 * time.Second
)

type fetcher struct {
	dir     string
	repoURL string
}

// NewFetcher creates a lifecycle.Fetcher over the configured BSData
// checkout directory.
func NewFetcher(cfg *config.Config) lifecycle.Fetcher {
	return &fetcher{
		dir:     cfg.BSData.Dir,
		repoURL: cfg.BSData.RepoURL,
	}
}

// Fetch clones the repository when the checkout is absent, otherwise
// pulls the latest data.
func (f *fetcher) Fetch(ctx context.Context) error {
	if _, err := os.Stat(f.dir); os.IsNotExist(err) {
		return f.clone(ctx)
	}
	return f.pull(ctx)
}

func (f *fetcher) clone(ctx context.Context) error {
	slog.Info("Cloning rules repository", "url", f.repoURL, "dir", f.dir)

	if err := os.MkdirAll(filepath.Dir(f.dir), 0755); err != nil {
		return CreateDirError(filepath.Dir(f.dir), err)
	}

	ctx, cancel := context.WithTimeout(ctx, cloneTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1",
		f.repoURL, f.dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return CloneError(f.repoURL, err, string(out))
	}

	slog.Info("Repository cloned", "dir", f.dir)
	return nil
}

func (f *fetcher) pull(ctx context.Context) error {
	slog.Info("Updating rules repository", "dir", f.dir)

	ctx, cancel := context.WithTimeout(ctx, pullTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", f.dir, "pull", "--ff-only")
	if out, err := cmd.CombinedOutput(); err != nil {
		return UpdateError(f.dir, err, string(out))
	}

	slog.Info("Repository updated", "dir", f.dir)
	return nil
}

// CataloguePath resolves a catalogue file by name, case-insensitively.
func (f *fetcher) CataloguePath(name string) (string, error) {
	if _, err := os.Stat(f.dir); err != nil {
		return "", MissingError(f.dir)
	}

	exact := filepath.Join(f.dir, name+".cat")
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	matches, _ := filepath.Glob(filepath.Join(f.dir, "*.cat"))
	for _, path := range matches {
		stem := strings.TrimSuffix(filepath.Base(path), ".cat")
		if strings.EqualFold(stem, name) {
			return path, nil
		}
	}

	return "", CatalogueNotFoundError(name)
}

// GameSystemPath finds the game-system file in the checkout.
func (f *fetcher) GameSystemPath() (string, error) {
	if _, err := os.Stat(f.dir); err != nil {
		return "", MissingError(f.dir)
	}

	matches, _ := filepath.Glob(filepath.Join(f.dir, "*.gst"))
	for _, path := range matches {
		stem := strings.TrimSuffix(filepath.Base(path), ".gst")
		if strings.Contains(strings.ToLower(stem), "horus heresy") {
			return path, nil
		}
	}

	return "", GameSystemNotFoundError(bsdata.GameSystemName)
}

// ListCatalogues returns the names of every catalogue file in the
// checkout, sorted by the glob's lexical order.
func (f *fetcher) ListCatalogues() []string {
	matches, _ := filepath.Glob(filepath.Join(f.dir, "*.cat"))
	res := make([]string, 0, len(matches))
	for _, path := range matches {
		res = append(res, strings.TrimSuffix(filepath.Base(path), ".cat"))
	}
	return res
}

// CommitsBehind reports how many commits the checkout lags its remote.
// Failures are soft: the caller gets zero and a debug log.
func (f *fetcher) CommitsBehind(ctx context.Context) int {
	if _, err := os.Stat(f.dir); err != nil {
		return 0
	}

	fetchCmd := exec.CommandContext(ctx, "git", "-C", f.dir, "fetch", "--quiet")
	if err := fetchCmd.Run(); err != nil {
		slog.Debug("Could not fetch remote state", "error", err)
		return 0
	}

	revCmd := exec.CommandContext(ctx, "git", "-C", f.dir,
		"rev-list", "--count", "HEAD..@{u}")
	out, err := revCmd.Output()
	if err != nil {
		slog.Debug("Could not count remote commits", "error", err)
		return 0
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0
	}
	return n
}
