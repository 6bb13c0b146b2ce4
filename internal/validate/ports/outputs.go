package ports

import "context"

// PayloadSourcePort abstracts fetching raw validation payload text from a
// remote location. Whether a caller embeds the payload inline or hands over a
// URL is its own decision.
type PayloadSourcePort interface {
	Fetch(ctx context.Context, url string) (string, error)
}
