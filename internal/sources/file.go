package sources

import (
	"context"

	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
)

// FileSource reads a spreadsheet from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Load(ctx context.Context) (ingest.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return ingest.RawTable{}, err
	}
	return ingest.ReadFile(s.Path)
}
