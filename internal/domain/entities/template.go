package entities

import (
	"path/filepath"
	"sort"
	"strings"
)

// QualifierSeparator separates a source name from a template name in a
// qualified reference such as "github/Go".
const QualifierSeparator = "/"

// Template is a single named file of ignore patterns within a Source.
type Template struct {
	Source string
	Name   string
	Path   string
}

// Key returns the qualified reference of the template.
func (t Template) Key() string {
	return t.Source + QualifierSeparator + t.Name
}

func (t Template) String() string {
	return t.Key()
}

// TemplateIndex maps template names to file paths for one source.
type TemplateIndex struct {
	Source    string
	Templates map[string]string
}

// NewTemplateIndex creates an empty index for the given source.
func NewTemplateIndex(source string) TemplateIndex {
	return TemplateIndex{Source: source, Templates: make(map[string]string)}
}

// Add records a template file. When the name is already taken, the shallower
// path wins, then the lexically smaller one, so walk order never matters.
// It returns false when the path was shadowed by an existing entry.
func (idx TemplateIndex) Add(name, path string) bool {
	existing, ok := idx.Templates[name]
	if ok && !preferPath(path, existing) {
		return false
	}
	idx.Templates[name] = path
	return true
}

func preferPath(candidate, existing string) bool {
	cd := strings.Count(filepath.ToSlash(candidate), "/")
	ed := strings.Count(filepath.ToSlash(existing), "/")
	if cd != ed {
		return cd < ed
	}
	return candidate < existing
}

// TemplateFilter decides whether a file in a working tree is a template.
// The name is the file base name and relPath the slash-separated path
// relative to the repository root.
type TemplateFilter func(relPath, name string) bool

// ExtensionFilter accepts files whose extension is in the allowlist, skipping
// hidden files, markdown documents and license files. An empty allowlist
// accepts every other file.
func ExtensionFilter(extensions ...string) TemplateFilter {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	return func(_, name string) bool {
		if strings.HasPrefix(name, ".") {
			return false
		}
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".md") || strings.HasPrefix(name, "LICENSE") {
			return false
		}
		if len(allowed) == 0 {
			return true
		}
		_, ok := allowed[strings.ToLower(filepath.Ext(name))]
		return ok
	}
}

// TemplateName strips the extension from a file base name.
func TemplateName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// CombinedIndex addresses templates across several sources, either by
// qualified reference ("source/name") or by bare name through a fixed
// precedence order.
type CombinedIndex struct {
	order    []string
	bySource map[string]map[string]string
}

// MergeIndices combines per-source indices. Sources listed in precedence come
// first, in that order; the remaining ones follow in the order given.
func MergeIndices(indices []TemplateIndex, precedence []string) *CombinedIndex {
	combined := &CombinedIndex{
		order:    make([]string, 0, len(indices)),
		bySource: make(map[string]map[string]string, len(indices)),
	}

	for _, idx := range indices {
		templates, ok := combined.bySource[idx.Source]
		if !ok {
			templates = make(map[string]string, len(idx.Templates))
			combined.bySource[idx.Source] = templates
		}
		for name, path := range idx.Templates {
			templates[name] = path
		}
	}

	seen := make(map[string]struct{}, len(indices))
	appendSource := func(name string) {
		if _, ok := combined.bySource[name]; !ok {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		combined.order = append(combined.order, name)
	}
	for _, name := range precedence {
		appendSource(name)
	}
	for _, idx := range indices {
		appendSource(idx.Source)
	}

	return combined
}

// Lookup resolves a bare or qualified template reference.
func (c *CombinedIndex) Lookup(ref string) (Template, bool) {
	if source, name, ok := strings.Cut(ref, QualifierSeparator); ok {
		path, found := c.bySource[source][name]
		if !found {
			return Template{}, false
		}
		return Template{Source: source, Name: name, Path: path}, true
	}

	for _, source := range c.order {
		if path, found := c.bySource[source][ref]; found {
			return Template{Source: source, Name: ref, Path: path}, true
		}
	}
	return Template{}, false
}

// Providers returns every source's version of a bare name, highest precedence first.
func (c *CombinedIndex) Providers(name string) []Template {
	var providers []Template
	for _, source := range c.order {
		if path, found := c.bySource[source][name]; found {
			providers = append(providers, Template{Source: source, Name: name, Path: path})
		}
	}
	return providers
}

// Names returns the distinct bare template names, sorted case-insensitively.
func (c *CombinedIndex) Names() []string {
	set := make(map[string]struct{})
	for _, templates := range c.bySource {
		for name := range templates {
			set[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names
}

// Sources returns the source names in precedence order.
func (c *CombinedIndex) Sources() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of distinct bare names.
func (c *CombinedIndex) Len() int {
	return len(c.Names())
}

// Resolution is the partial-success result of resolving requested names.
type Resolution struct {
	Resolved []Template
	Unknown  []*UnknownTemplateError
}

// MissingNames returns the names that matched no source, in request order.
func (r Resolution) MissingNames() []string {
	names := make([]string, 0, len(r.Unknown))
	for _, u := range r.Unknown {
		names = append(names, u.Name)
	}
	return names
}
