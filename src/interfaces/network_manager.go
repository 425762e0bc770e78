package interfaces

import (
	"context"

	"plug-explorer/src/models"
)

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for backend GET requests.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Get issues one GET for path (relative to the backend base URL) and reports the
	// outcome as a tagged result. It never retries.
	Get(ctx context.Context, path string, params map[string]string) models.MResult
}
