package content

import "context"

var _ Api = (*Repo)(nil)
var _ Api = (*repoMock)(nil)

type Api interface {
	// Get returns the singleton document, empty when nothing was stored yet
	Get(ctx context.Context) (SiteContent, error)
	// Update merges the fields of partial into the stored document,
	// creating it when absent; fields not present in partial are kept
	Update(ctx context.Context, partial SiteContent) error
}
