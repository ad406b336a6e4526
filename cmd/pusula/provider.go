package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/pusula"
	"github.com/fwojciec/pusula/gemini"
	pusulahttp "github.com/fwojciec/pusula/http"
)

// backend is a resolved recommender plus a label for where its answers
// come from.
type backend struct {
	recommender pusula.Recommender
	source      string
}

// resolveBackend selects and constructs the recommender. A server URL
// selects the HTTP client; otherwise Gemini is called directly. All env
// var values are passed in as parameters; env is only read in main().
func resolveBackend(ctx context.Context, serverFlag, modelFlag, apiKeyFlag, geminiEnvKey string) (backend, error) {
	if serverFlag != "" {
		if modelFlag != "" || apiKeyFlag != "" {
			return backend{}, fmt.Errorf("-model and -api-key cannot be used with -server: the server picks its own model")
		}
		client := pusulahttp.New(pusulahttp.WithBaseURL(serverFlag))
		return backend{recommender: client, source: serverFlag}, nil
	}

	// Explicit flag overrides env var.
	key := apiKeyFlag
	if key == "" {
		key = geminiEnvKey
	}
	if key == "" {
		return backend{}, fmt.Errorf("no backend: set GEMINI_API_KEY (or use -api-key or -server flags)")
	}
	client, err := gemini.New(ctx, key, gemini.WithModel(modelFlag))
	if err != nil {
		return backend{}, fmt.Errorf("gemini: %w", err)
	}
	return backend{recommender: client, source: client.Model()}, nil
}
