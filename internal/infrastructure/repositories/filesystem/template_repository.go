package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/ignore/internal/domain/entities"
	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

const (
	byteOrderMark = "\ufeff"
	// maxSymlinkHops bounds how many links are followed to reach a source root.
	maxSymlinkHops = 40
)

// TemplateRepository implements repositories.TemplateRepository over a billy filesystem.
type TemplateRepository struct {
	fs billy.Filesystem
}

var _ repositories.TemplateRepository = (*TemplateRepository)(nil)

// NewTemplateRepository creates a TemplateRepository on the local filesystem.
func NewTemplateRepository() *TemplateRepository {
	return NewTemplateRepositoryWithFilesystem(osfs.New("/"))
}

// NewTemplateRepositoryWithFilesystem creates a TemplateRepository on fs.
// Paths handed to it are resolved against the root of fs.
func NewTemplateRepositoryWithFilesystem(fs billy.Filesystem) *TemplateRepository {
	return &TemplateRepository{fs: fs}
}

// Build walks the working tree of entry and indexes every file accepted by filter.
func (it *TemplateRepository) Build(
	entry *entities.RepoCacheEntry,
	filter entities.TemplateFilter,
) (entities.TemplateIndex, error) {
	index := entities.NewTemplateIndex(entry.Source.Name)

	root, err := filepath.Abs(entry.Path)
	if err == nil {
		root, err = it.resolveRoot(root)
	}
	if err != nil {
		return index, &entities.IndexError{Source: entry.Source.Name, Path: entry.Path, Err: err}
	}

	logger.Debugf("Indexing templates of source %q in %s", entry.Source.Name, root)

	walkErr := util.Walk(it.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// .git and any other hidden directory
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() && info.Mode()&os.ModeSymlink == 0 {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if !filter(filepath.ToSlash(rel), info.Name()) {
			return nil
		}

		name := entities.TemplateName(info.Name())
		if name == "" {
			return nil
		}
		if !index.Add(name, path) {
			logger.Debugf("Template %q at %s is shadowed by %s", name, path, index.Templates[name])
		}
		return nil
	})
	if walkErr != nil {
		return entities.NewTemplateIndex(entry.Source.Name), &entities.IndexError{
			Source: entry.Source.Name,
			Path:   root,
			Err:    walkErr,
		}
	}

	logger.Debugf("Indexed %d templates for source %q", len(index.Templates), entry.Source.Name)
	return index, nil
}

// resolveRoot follows the links a source path points through, so the walk
// starts from the directory itself.
func (it *TemplateRepository) resolveRoot(root string) (string, error) {
	for range maxSymlinkHops {
		info, err := it.fs.Lstat(root)
		if err != nil {
			return "", err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			if !info.IsDir() {
				return "", fmt.Errorf("%s is not a directory", root)
			}
			return root, nil
		}

		target, err := it.fs.Readlink(root)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(root), target)
		}
		logger.Debugf("Following link %s to %s", root, target)
		root = target
	}
	return "", fmt.Errorf("too many links to follow at %s", root)
}

// ReadLines returns the lines of a template file without line terminators.
func (it *TemplateRepository) ReadLines(path string) ([]string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	data, err := util.ReadFile(it.fs, absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", absPath, err)
	}

	return splitLines(string(data)), nil
}

func splitLines(content string) []string {
	content = strings.TrimPrefix(content, byteOrderMark)
	if content == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}
