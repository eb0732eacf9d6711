// assets/embed.go
//
// Embedded default puzzle data, so the server runs out of the box when no
// PUZZLE_DATA_FILE is configured. The embedded payload is a small
// hand-built vocabulary; production deployments point at a real payload
// produced by the data pipeline.

package assets

import _ "embed"

//go:embed puzzle_data.json
var defaultPuzzleData []byte

// DefaultPuzzleData returns the embedded puzzle data payload.
func DefaultPuzzleData() []byte {
	return defaultPuzzleData
}
