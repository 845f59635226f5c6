// Package gitscan discovers today's commits across local Git repositories.
// This package implements the domain.CommitScanner interface using go-git/v5.
package gitscan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/stevendejongnl/harv/internal/domain"
)

// Logger defines the logging interface for the scanner.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
}

// Scanner implements domain.CommitScanner using go-git/v5. It walks every
// local branch of every configured repository, collecting commits whose
// commit time falls within the current local day.
type Scanner struct {
	logger Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewScanner creates a Scanner.
func NewScanner(log Logger) *Scanner {
	return &Scanner{logger: log, now: time.Now}
}

// TodayCommits walks the given repositories and returns today's commits,
// deduplicated by hash across branches and repositories, newest first.
// A repository that cannot be opened or read is logged and skipped.
func (s *Scanner) TodayCommits(ctx context.Context, repoPaths []string) ([]domain.Commit, error) {
	if len(repoPaths) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		repoPaths = []string{cwd}
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	seen := make(map[string]struct{})
	var commits []domain.Commit

	for _, path := range repoPaths {
		repoCommits, err := s.scanRepo(ctx, path, startOfDay, now, seen)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.logger.Warn(ctx, "skipping repository", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		commits = append(commits, repoCommits...)
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Timestamp.After(commits[j].Timestamp)
	})

	s.logger.Debug(ctx, "scanned repositories", map[string]any{
		"repositories": len(repoPaths),
		"commits":      len(commits),
	})

	return commits, nil
}

func (s *Scanner) scanRepo(ctx context.Context, path string, startOfDay, now time.Time, seen map[string]struct{}) ([]domain.Commit, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	branches, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	var commits []domain.Commit
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		branchCommits, err := s.walkBranch(ctx, repo, ref, startOfDay, now, seen)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			// One unreadable branch never hides the others.
			s.logger.Warn(ctx, "skipping branch", map[string]any{
				"path":   path,
				"branch": ref.Name().Short(),
				"error":  err.Error(),
			})
			return nil
		}
		commits = append(commits, branchCommits...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return commits, nil
}

// walkBranch iterates a branch in commit-time order, stopping as soon as a
// commit predates the start of the local day. Commits timestamped in the
// future are skipped without stopping the walk.
func (s *Scanner) walkBranch(ctx context.Context, repo *git.Repository, ref *plumbing.Reference, startOfDay, now time.Time, seen map[string]struct{}) ([]domain.Commit, error) {
	tip, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("resolving branch tip: %w", err)
	}

	branch := ref.Name().Short()
	var commits []domain.Commit
	iter := object.NewCommitIterCTime(tip, nil, nil)

	err = iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		when := c.Committer.When
		if when.Before(startOfDay) {
			return storer.ErrStop
		}
		if when.After(now) {
			return nil
		}

		hash := c.Hash.String()
		if _, ok := seen[hash]; ok {
			return nil
		}
		seen[hash] = struct{}{}

		commits = append(commits, domain.Commit{
			Hash:      hash,
			Message:   c.Message,
			Author:    c.Author.Name,
			Timestamp: when,
			Branch:    branch,
		})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("walking branch %s: %w", branch, err)
	}

	return commits, nil
}
