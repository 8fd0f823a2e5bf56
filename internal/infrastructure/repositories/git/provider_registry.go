package git

import (
	"sort"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	forgeHelpers "github.com/rios0rios0/gitforge/pkg/config/domain/helpers"
	forgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
	"github.com/rios0rios0/gitforge/pkg/providers/infrastructure/azuredevops"
	"github.com/rios0rios0/gitforge/pkg/providers/infrastructure/github"
	"github.com/rios0rios0/gitforge/pkg/providers/infrastructure/gitlab"
	forgeRegistry "github.com/rios0rios0/gitforge/pkg/registry/infrastructure"
	logger "github.com/sirupsen/logrus"
)

// ProviderRegistry resolves the hosting provider of a remote URL and the
// credentials used to clone from it.
type ProviderRegistry struct {
	forges *forgeRegistry.ProviderRegistry
}

// NewProviderRegistry creates a registry holding GitHub, GitLab and Azure DevOps.
func NewProviderRegistry() *ProviderRegistry {
	registry := &ProviderRegistry{forges: forgeRegistry.NewProviderRegistry()}
	registry.Register("github", github.NewProvider)
	registry.Register("gitlab", gitlab.NewProvider)
	registry.Register("azuredevops", azuredevops.NewProvider)
	return registry
}

// Register adds a provider factory under name. A token-less instance is kept
// for URL matching, and its transport settings are applied right away so
// that no clone is running when they change.
func (r *ProviderRegistry) Register(name string, factory forgeRegistry.ProviderFactory) {
	adapter := factory("")
	r.forges.RegisterFactory(name, factory)
	r.forges.RegisterAdapter(adapter)
	if local, ok := adapter.(forgeEntities.LocalGitAuthProvider); ok {
		local.ConfigureTransport()
	}
}

// Get returns the provider registered under name, configured with token.
func (r *ProviderRegistry) Get(name, token string) (forgeEntities.ForgeProvider, error) {
	return r.forges.Get(name, token)
}

// Names returns the registered provider names, sorted.
func (r *ProviderRegistry) Names() []string {
	names := r.forges.Names()
	sort.Strings(names)
	return names
}

// Match returns the provider hosting rawURL when it can authenticate local
// git operations.
func (r *ProviderRegistry) Match(rawURL string) (forgeEntities.LocalGitAuthProvider, bool) {
	adapter := r.forges.GetAdapterByURL(rawURL)
	if adapter == nil {
		return nil, false
	}
	local, ok := adapter.(forgeEntities.LocalGitAuthProvider)
	return local, ok
}

// AuthFor returns the auth method for cloning rawURL. A non-empty token wins;
// otherwise the provider's environment variables are checked. Hosts without a
// provider only authenticate with an explicit token.
func (r *ProviderRegistry) AuthFor(rawURL, token string) transport.AuthMethod {
	provider, ok := r.Match(rawURL)
	if !ok {
		if token == "" {
			return nil
		}
		return &http.BasicAuth{Username: tokenUsername, Password: token}
	}

	if token == "" {
		token = forgeHelpers.ResolveTokenFromEnv(provider.GetServiceType())
		if token == "" {
			return nil
		}
		logger.Debugf("Using the %s token from the environment for %s", provider.Name(), rawURL)
	}

	configured, err := r.forges.Get(provider.Name(), token)
	if err != nil {
		logger.Warnf("Failed to configure provider %q: %s", provider.Name(), err)
		return nil
	}
	local, ok := configured.(forgeEntities.LocalGitAuthProvider)
	if !ok {
		return nil
	}
	methods := local.GetAuthMethods("")
	if len(methods) == 0 {
		return nil
	}
	return methods[0]
}

// CloneURL returns rawURL the way its provider expects it for cloning.
func (r *ProviderRegistry) CloneURL(rawURL string) string {
	provider, ok := r.Match(rawURL)
	if !ok {
		return rawURL
	}
	return provider.PrepareCloneURL(rawURL)
}

// EnvHint returns the variables checked for rawURL, for error messages.
func (r *ProviderRegistry) EnvHint(rawURL string) string {
	provider, ok := r.Match(rawURL)
	if !ok {
		return ""
	}
	return forgeHelpers.TokenEnvHint(provider.GetServiceType())
}
