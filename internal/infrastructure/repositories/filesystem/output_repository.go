package filesystem

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/rios0rios0/ignore/internal/domain/repositories"
)

// OutputRepository implements repositories.OutputRepository over a billy filesystem.
type OutputRepository struct {
	fs billy.Filesystem
	mu sync.Mutex
}

var _ repositories.OutputRepository = (*OutputRepository)(nil)

// NewOutputRepository creates an OutputRepository on the local filesystem.
func NewOutputRepository() *OutputRepository {
	return NewOutputRepositoryWithFilesystem(osfs.New("/"))
}

// NewOutputRepositoryWithFilesystem creates an OutputRepository on fs.
func NewOutputRepositoryWithFilesystem(fs billy.Filesystem) *OutputRepository {
	return &OutputRepository{fs: fs}
}

// Write replaces destination with lines, one per line. The content is
// written to a temporary sibling first and renamed over destination, so a
// failed write leaves the previous file intact.
func (it *OutputRepository) Write(destination string, lines []string) error {
	it.mu.Lock()
	defer it.mu.Unlock()

	absPath, err := filepath.Abs(destination)
	if err != nil {
		return err
	}

	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}

	return WriteFileAtomic(it.fs, absPath, []byte(content), 0o644)
}
