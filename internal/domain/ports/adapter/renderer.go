package adapter

import "context"

// DocumentRenderer converts generated markdown into a distributable document
// and returns the artifact location on disk.
type DocumentRenderer interface {
	Render(ctx context.Context, markdown, outputPath string) error
}
