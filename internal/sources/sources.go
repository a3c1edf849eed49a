package sources

import (
	"context"

	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
)

// Source is anywhere a raw programs table can come from. The dashboard
// reads the local master file; cmd/fetchdata pulls a remote copy first.
type Source interface {
	Name() string
	Load(ctx context.Context) (ingest.RawTable, error)
}
