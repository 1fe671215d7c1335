package metadata

import (
	"context"
	"fmt"
	"os"

	"github.com/MrSnakeDoc/campstats/internal/domain"
)

// FileProvider reads the metadata from a JSON or YAML file on every fetch.
type FileProvider struct {
	filePath string
}

// NewFileProvider creates a file-backed provider.
func NewFileProvider(filePath string) *FileProvider {
	return &FileProvider{
		filePath: filePath,
	}
}

// Fetch reads and parses the file.
func (p *FileProvider) Fetch(ctx context.Context) (domain.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	return Decode(data, FormatFromPath(p.filePath))
}
