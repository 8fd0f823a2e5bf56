package entities

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSourceURL is the template repository used when nothing is configured.
	DefaultSourceURL = "https://github.com/github/gitignore"
	// DefaultStaleAfter is the age after which a cached repository is checked again.
	DefaultStaleAfter = 7 * 24 * time.Hour
	// DefaultFetchTimeout bounds every clone and fetch.
	DefaultFetchTimeout = 2 * time.Minute
	// DefaultConcurrency is the number of sources synced at the same time.
	DefaultConcurrency = 4
	// DefaultOutput is the consolidated file written when no output is given.
	DefaultOutput = ".gitignore"
	// DefaultExtension is the template file extension accepted by default.
	DefaultExtension = ".gitignore"

	appDirName    = "ignore"
	repoDirName   = "repos"
	stateFileName = "state.toml"
)

// Settings is the runtime configuration of a run.
type Settings struct {
	CacheDir      string
	StateFile     string
	StaleAfter    time.Duration
	FetchTimeout  time.Duration
	Concurrency   int
	Sources       []Source
	Precedence    []string
	Extensions    []string
	Dedup         DedupPolicy
	Output        string
	Header        bool
	Templates     []string // Used when no template is named on the command line
	Supplementary []string // Extra lines appended after every template
}

// settingsFile is the on-disk layout, shared by the YAML and HCL formats.
type settingsFile struct {
	CacheDir      string       `yaml:"cache_dir"     hcl:"cache_dir,optional"`
	StateFile     string       `yaml:"state_file"    hcl:"state_file,optional"`
	StaleAfter    string       `yaml:"stale_after"   hcl:"stale_after,optional"`
	FetchTimeout  string       `yaml:"fetch_timeout" hcl:"fetch_timeout,optional"`
	Concurrency   int          `yaml:"concurrency"   hcl:"concurrency,optional"`
	Precedence    []string     `yaml:"precedence"    hcl:"precedence,optional"`
	Extensions    []string     `yaml:"extensions"    hcl:"extensions,optional"`
	Dedup         string       `yaml:"dedup"         hcl:"dedup,optional"`
	Output        string       `yaml:"output"        hcl:"output,optional"`
	Header        bool         `yaml:"header"        hcl:"header,optional"`
	Templates     []string     `yaml:"templates"     hcl:"templates,optional"`
	Supplementary []string     `yaml:"supplementary" hcl:"supplementary,optional"`
	Sources       []sourceFile `yaml:"sources"       hcl:"source,block"`
}

type sourceFile struct {
	Name       string `yaml:"name"        hcl:"name,label"`
	URL        string `yaml:"url"         hcl:"url"`
	Path       string `yaml:"path"        hcl:"path,optional"`
	Token      string `yaml:"token"       hcl:"token,optional"` // Inline, ${ENV_VAR}, or file path
	AutoUpdate *bool  `yaml:"auto_update" hcl:"auto_update,optional"`
	Skip       bool   `yaml:"skip"        hcl:"skip,optional"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file. Files ending in ".hcl"
// are decoded as HCL, everything else as YAML.
func NewSettings(configPath string) (*Settings, error) {
	var file settingsFile

	if strings.EqualFold(filepath.Ext(configPath), ".hcl") {
		if err := hclsimple.DecodeFile(configPath, nil, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", configPath, err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
		if unmarshalErr := yaml.Unmarshal(data, &file); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", configPath, unmarshalErr)
		}
	}

	return file.toSettings()
}

// DefaultSettings returns the configuration used when no file is found: the
// github/gitignore repository cached under the user cache directory.
func DefaultSettings() (*Settings, error) {
	return (&settingsFile{}).toSettings()
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	var candidates []string

	for _, loc := range []string{".", ".config"} {
		for _, name := range []string{".ignore.yaml", ".ignore.yml", ".ignore.hcl"} {
			candidates = append(candidates, filepath.Join(loc, name))
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		for _, name := range []string{"config.yaml", "config.yml", "config.hcl"} {
			candidates = append(candidates, filepath.Join(configDir, appDirName, name))
		}
	}

	for _, p := range candidates {
		if _, statErr := os.Stat(p); statErr == nil {
			return p, nil
		}
	}

	return "", errors.New("config file not found in default locations")
}

func (f *settingsFile) toSettings() (*Settings, error) {
	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		cacheRoot = ""
	}

	settings := &Settings{
		CacheDir:      expandPath(f.CacheDir),
		StateFile:     expandPath(f.StateFile),
		StaleAfter:    DefaultStaleAfter,
		FetchTimeout:  DefaultFetchTimeout,
		Concurrency:   f.Concurrency,
		Precedence:    f.Precedence,
		Extensions:    f.Extensions,
		Output:        expandPath(f.Output),
		Header:        f.Header,
		Templates:     f.Templates,
		Supplementary: f.Supplementary,
	}

	if settings.CacheDir == "" || settings.StateFile == "" {
		if cacheRoot == "" {
			return nil, errors.New("failed to locate the user cache directory; set cache_dir and state_file")
		}
		if settings.CacheDir == "" {
			settings.CacheDir = filepath.Join(cacheRoot, appDirName, repoDirName)
		}
		if settings.StateFile == "" {
			settings.StateFile = filepath.Join(cacheRoot, appDirName, stateFileName)
		}
	}
	if settings.Concurrency == 0 {
		settings.Concurrency = DefaultConcurrency
	}
	if settings.Output == "" {
		settings.Output = DefaultOutput
	}
	if len(settings.Extensions) == 0 {
		settings.Extensions = []string{DefaultExtension}
	}

	if f.StaleAfter != "" {
		if settings.StaleAfter, err = time.ParseDuration(f.StaleAfter); err != nil {
			return nil, fmt.Errorf("invalid stale_after %q: %w", f.StaleAfter, err)
		}
	}
	if f.FetchTimeout != "" {
		if settings.FetchTimeout, err = time.ParseDuration(f.FetchTimeout); err != nil {
			return nil, fmt.Errorf("invalid fetch_timeout %q: %w", f.FetchTimeout, err)
		}
	}
	if settings.Dedup, err = ParseDedupPolicy(f.Dedup); err != nil {
		return nil, err
	}

	sources := f.Sources
	if len(sources) == 0 {
		sources = []sourceFile{{URL: DefaultSourceURL}}
	}
	for _, sf := range sources {
		settings.Sources = append(settings.Sources, sf.toSource(settings.CacheDir))
	}

	if validateErr := validate(settings); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

func (sf sourceFile) toSource(cacheDir string) Source {
	owner, repo := splitRepoURL(sf.URL)

	name := strings.TrimSpace(sf.Name)
	if name == "" {
		name = owner
	}

	localPath := expandPath(sf.Path)
	if localPath == "" {
		localPath = path.Join(owner, repo)
	}
	if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(cacheDir, filepath.FromSlash(localPath))
	}

	autoUpdate := true
	if sf.AutoUpdate != nil {
		autoUpdate = *sf.AutoUpdate
	}

	return Source{
		Name:       name,
		URL:        strings.TrimSpace(sf.URL),
		Path:       localPath,
		Token:      resolveToken(sf.Token),
		AutoUpdate: autoUpdate,
		Skip:       sf.Skip,
	}
}

// splitRepoURL returns the last two path components of a repository URL
// ("github", "gitignore" for https://github.com/github/gitignore).
func splitRepoURL(raw string) (string, string) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	repoPath := trimmed
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
		repoPath = parsed.Path
	} else if _, after, ok := strings.Cut(trimmed, ":"); ok && strings.HasPrefix(trimmed, "git@") {
		repoPath = after
	}

	segments := strings.FieldsFunc(filepath.ToSlash(repoPath), func(r rune) bool { return r == '/' })
	switch len(segments) {
	case 0:
		return "undefined", "undefined"
	case 1:
		return "undefined", segments[0]
	default:
		return segments[len(segments)-2], segments[len(segments)-1]
	}
}

// ActiveSources returns the sources not marked as skipped, in configuration order.
func (s *Settings) ActiveSources() []Source {
	active := make([]Source, 0, len(s.Sources))
	for _, src := range s.Sources {
		if src.Skip {
			logger.Debugf("Source %q is marked as skipped", src.Name)
			continue
		}
		active = append(active, src)
	}
	return active
}

// PrecedenceOrder returns the bare-name tie-break order: the configured
// precedence list followed by every other source in configuration order.
func (s *Settings) PrecedenceOrder() []string {
	order := make([]string, 0, len(s.Sources))
	seen := make(map[string]struct{}, len(s.Sources))
	for _, name := range append(append([]string(nil), s.Precedence...), sourceNames(s.Sources)...) {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	return order
}

// TemplateFilter returns the filter selecting template files in a working tree.
func (s *Settings) TemplateFilter() TemplateFilter {
	return ExtensionFilter(s.Extensions...)
}

func sourceNames(sources []Source) []string {
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name)
	}
	return names
}

// expandPath expands ${ENV_VAR} references and a leading "~".
func expandPath(raw string) string {
	expanded := expandEnv(strings.TrimSpace(raw))
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
		}
	}
	return expanded
}

func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := expandEnv(raw)

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(settings *Settings) error {
	if len(settings.Sources) == 0 {
		return errors.New("at least one source must be configured")
	}
	if settings.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", settings.Concurrency)
	}
	if settings.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", settings.FetchTimeout)
	}

	names := make(map[string]int, len(settings.Sources))
	for i, src := range settings.Sources {
		if src.URL == "" {
			return fmt.Errorf("sources[%d].url is required", i)
		}
		if src.Name == "" || src.Name == "undefined" {
			return fmt.Errorf("sources[%d].name is required (could not derive one from %q)", i, src.URL)
		}
		if strings.Contains(src.Name, QualifierSeparator) {
			return fmt.Errorf("sources[%d].name %q must not contain %q", i, src.Name, QualifierSeparator)
		}
		if prev, dup := names[src.Name]; dup {
			return fmt.Errorf("sources[%d] and sources[%d] share the name %q", prev, i, src.Name)
		}
		names[src.Name] = i
	}

	for _, name := range settings.Precedence {
		if _, ok := names[name]; !ok {
			return fmt.Errorf("precedence references unknown source %q", name)
		}
	}

	return nil
}
