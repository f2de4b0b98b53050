package vision

import "context"

// Client wraps one call to the external vision model: image bytes in, raw
// model text out. Implementations do not retry; retries are a caller policy.
type Client interface {
	Analyze(ctx context.Context, image []byte, imageName string) (string, error)
}
