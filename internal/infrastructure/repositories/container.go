package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/ignore/internal/domain/repositories"
	fsRepo "github.com/rios0rios0/ignore/internal/infrastructure/repositories/filesystem"
	gitRepo "github.com/rios0rios0/ignore/internal/infrastructure/repositories/git"
	stateRepo "github.com/rios0rios0/ignore/internal/infrastructure/repositories/state"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(gitRepo.NewProviderRegistry); err != nil {
		return err
	}
	if err := container.Provide(gitRepo.NewRepoStore); err != nil {
		return err
	}
	if err := container.Provide(func(impl *gitRepo.RepoStore) domainRepos.RepoStore {
		return impl
	}); err != nil {
		return err
	}

	if err := container.Provide(stateRepo.NewStaleTrackerFactory); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.TemplateRepository {
		return fsRepo.NewTemplateRepository()
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.OutputRepository {
		return fsRepo.NewOutputRepository()
	}); err != nil {
		return err
	}

	return nil
}
