package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

const (
	remoteName = "origin"
	// tokenUsername is sent with tokens for hosts without a known provider.
	tokenUsername = "ignore"
)

// RepoStore implements repositories.RepoStore on top of go-git.
// Opened repositories are kept per cache path for the lifetime of the store.
type RepoStore struct {
	mu        sync.Mutex
	repos     map[string]*gogit.Repository
	providers *ProviderRegistry
}

var _ repositories.RepoStore = (*RepoStore)(nil)

// NewRepoStore creates an empty RepoStore. Sources without a token use the
// token that providers finds in the environment for their host.
func NewRepoStore(providers *ProviderRegistry) *RepoStore {
	return &RepoStore{
		repos:     make(map[string]*gogit.Repository),
		providers: providers,
	}
}

// EnsurePresent clones the source when its cache path is absent or empty.
func (it *RepoStore) EnsurePresent(
	ctx context.Context,
	source entities.Source,
) (*entities.RepoCacheEntry, error) {
	entry := &entities.RepoCacheEntry{Source: source, Path: source.Path}

	populated, err := isPopulated(source.Path)
	if err != nil {
		return nil, &entities.AcquisitionError{Source: source.Name, Path: source.Path, Err: err}
	}

	if populated {
		repo, openErr := gogit.PlainOpen(source.Path)
		if openErr != nil {
			if errors.Is(openErr, gogit.ErrRepositoryNotExists) {
				openErr = fmt.Errorf("%w, remove it to clone again", entities.ErrCorruptRepository)
			} else {
				openErr = fmt.Errorf("%w: %w", entities.ErrCorruptRepository, openErr)
			}
			return nil, &entities.AcquisitionError{Source: source.Name, Path: source.Path, Err: openErr}
		}
		it.remember(source.Path, repo)
		logger.Debugf("Source %q is cached at %s", source.Name, source.Path)
		return entry, nil
	}

	logger.Infof("Cloning source %q from %s into %s", source.Name, source.URL, source.Path)

	if mkdirErr := os.MkdirAll(filepath.Dir(source.Path), 0o755); mkdirErr != nil {
		return nil, &entities.AcquisitionError{Source: source.Name, Path: source.Path, Err: mkdirErr}
	}

	repo, cloneErr := gogit.PlainCloneContext(ctx, source.Path, false, &gogit.CloneOptions{
		URL:               it.cloneURL(source),
		RemoteName:        remoteName,
		Auth:              it.authFor(source),
		RecurseSubmodules: gogit.DefaultSubmoduleRecursionDepth,
	})
	if cloneErr != nil {
		return nil, &entities.AcquisitionError{
			Source: source.Name,
			Path:   source.Path,
			Err:    it.withHint(source, classifyError(ctx, cloneErr)),
		}
	}

	it.remember(source.Path, repo)
	entry.Cloned = true
	return entry, nil
}

// Update fetches origin and fast-forwards the checked-out branch.
func (it *RepoStore) Update(
	ctx context.Context,
	entry *entities.RepoCacheEntry,
) (entities.UpdateOutcome, error) {
	name := entry.Source.Name

	repo, err := it.open(entry.Path)
	if err != nil {
		return entities.OutcomeNotDue, &entities.UpdateError{Source: name, Err: err}
	}

	head, err := repo.Head()
	if err != nil {
		return entities.OutcomeNotDue, &entities.UpdateError{
			Source: name,
			Err:    fmt.Errorf("failed to resolve HEAD: %w", err),
		}
	}
	if !head.Name().IsBranch() {
		return entities.OutcomeNotDue, &entities.UpdateError{Source: name, Err: entities.ErrDetachedHead}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return entities.OutcomeNotDue, &entities.UpdateError{
			Source: name,
			Err:    fmt.Errorf("failed to open worktree: %w", err),
		}
	}

	logger.Debugf("Fetching %s for source %q", head.Name().Short(), name)

	pullErr := worktree.PullContext(ctx, &gogit.PullOptions{
		RemoteName:    remoteName,
		ReferenceName: head.Name(),
		SingleBranch:  true,
		Auth:          it.authFor(entry.Source),
	})
	if errors.Is(pullErr, gogit.NoErrAlreadyUpToDate) {
		return entities.OutcomeUpToDate, nil
	}
	if pullErr != nil {
		return entities.OutcomeNotDue, &entities.UpdateError{
			Source: name,
			Err:    it.withHint(entry.Source, classifyError(ctx, pullErr)),
		}
	}

	return entities.OutcomeUpdated, nil
}

// LastCommitTime returns the committer time of HEAD.
func (it *RepoStore) LastCommitTime(entry *entities.RepoCacheEntry) (time.Time, error) {
	repo, err := it.open(entry.Path)
	if err != nil {
		return time.Time{}, err
	}

	head, err := repo.Head()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to resolve HEAD of %s: %w", entry.Path, err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read HEAD commit of %s: %w", entry.Path, err)
	}

	return commit.Committer.When, nil
}

func (it *RepoStore) open(path string) (*gogit.Repository, error) {
	it.mu.Lock()
	defer it.mu.Unlock()

	if repo, ok := it.repos[path]; ok {
		return repo, nil
	}

	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	it.repos[path] = repo
	return repo, nil
}

func (it *RepoStore) remember(path string, repo *gogit.Repository) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.repos[path] = repo
}

// isPopulated reports whether path is a directory with at least one entry.
// A missing path or an empty directory can be cloned into.
func isPopulated(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%w: not a directory", entities.ErrCorruptRepository)
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(dirEntries) > 0, nil
}

func (it *RepoStore) authFor(source entities.Source) transport.AuthMethod {
	if it.providers == nil {
		if source.Token == "" {
			return nil
		}
		return &http.BasicAuth{Username: tokenUsername, Password: source.Token}
	}
	return it.providers.AuthFor(source.URL, source.Token)
}

func (it *RepoStore) cloneURL(source entities.Source) string {
	if it.providers == nil {
		return source.URL
	}
	return it.providers.CloneURL(source.URL)
}

// withHint names the environment variables to set when authentication failed.
func (it *RepoStore) withHint(source entities.Source, err error) error {
	if !errors.Is(err, entities.ErrAuthentication) || source.Token != "" || it.providers == nil {
		return err
	}
	if hint := it.providers.EnvHint(source.URL); hint != "" {
		return fmt.Errorf("%w (set a token in the config or export %s)", err, hint)
	}
	return err
}

// classifyError maps go-git errors to the domain sentinels, keeping the
// original error in the chain.
func classifyError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", entities.ErrTimeout, err)
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return fmt.Errorf("%w: %w", entities.ErrAuthentication, err)
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return fmt.Errorf("%w: %w", entities.ErrRemoteNotFound, err)
	case errors.Is(err, gogit.ErrNonFastForwardUpdate):
		return fmt.Errorf("%w: %w", entities.ErrNonFastForward, err)
	case errors.Is(err, gogit.ErrUnstagedChanges), errors.Is(err, gogit.ErrWorktreeNotClean):
		return fmt.Errorf("%w: worktree has local changes: %w", entities.ErrNonFastForward, err)
	default:
		return err
	}
}
