package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is one raw device-config record as read from storage. Parsing
// happens in the registry so a bad source can be skipped independently.
type Source struct {
	Name string
	Data []byte
}

// Repository lists the raw per-device configuration sources.
type Repository interface {
	ListSources(ctx context.Context) ([]Source, error)
}

// FileRepository reads every JSON or YAML file in a directory, one
// device per file, in lexical order.
type FileRepository struct {
	dir string
}

func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

func (r *FileRepository) ListSources(ctx context.Context) ([]Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirents, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read device config dir %s: %w", r.dir, err)
	}

	var sources []Source
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(de.Name())) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}

		path := filepath.Join(r.dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read device config %s: %w", path, err)
		}
		sources = append(sources, Source{Name: path, Data: data})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}
