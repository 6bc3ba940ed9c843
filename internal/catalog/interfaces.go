package catalog

import "context"

type Loader interface {
	LoadBuiltin(ctx context.Context) (*Catalog, error)
	Load(ctx context.Context, path string) (*Catalog, error)
}
