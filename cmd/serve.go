package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/recall/pkg/errors"
	"github.com/theapemachine/recall/pkg/memory"
	"github.com/theapemachine/recall/pkg/provider"
	"github.com/theapemachine/recall/pkg/service"
	"github.com/theapemachine/recall/pkg/stores/qdrant"
)

var (
	portFlag int
	hostFlag string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the recall memory service",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(cmd.Context())

			if err != nil {
				return err
			}

			v := viper.GetViper()
			host := v.GetString("server.host")
			port := v.GetInt("server.port")

			if cmd.Flags().Changed("host") {
				host = hostFlag
			}

			if cmd.Flags().Changed("port") {
				port = portFlag
			}

			srv := service.NewMemoryServer(manager)
			return srv.Start(fmt.Sprintf("%s:%d", host, port))
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 3210, "Port to serve on")
	serveCmd.Flags().StringVarP(&hostFlag, "host", "H", "0.0.0.0", "Host address to bind to")
}

/*
newManager assembles the full memory stack from the active configuration: a
provisioned Qdrant store, optionally wrapped with retries, plus the
configured embedding and extraction providers.
*/
func newManager(ctx context.Context) (*memory.Manager, error) {
	v := viper.GetViper()

	endpoint := fmt.Sprintf(
		"http://%s:%d", v.GetString("qdrant.host"), v.GetInt("qdrant.port"),
	)

	log.Info(
		"connecting to qdrant",
		"endpoint", endpoint,
		"collection", v.GetString("qdrant.collection"),
	)

	store, err := qdrant.New(ctx, qdrant.Config{
		Endpoint:   endpoint,
		Collection: v.GetString("qdrant.collection"),
		VectorSize: v.GetInt("qdrant.dimension"),
		Distance:   v.GetString("qdrant.distance"),
	})

	if err != nil {
		return nil, err
	}

	var vectors memory.VectorStore = store

	if attempts := v.GetInt("qdrant.retry.attempts"); attempts > 1 {
		config := errors.DefaultRetryConfig()
		config.MaxAttempts = attempts
		vectors = memory.NewRetryingStore(store, config)
	}

	embedder, err := provider.NewEmbedder(
		v.GetString("embedding.provider"), v.GetString("embedding.model"),
	)

	if err != nil {
		return nil, err
	}

	cached := memory.NewCachingEmbedder(embedder, v.GetDuration("embedding.cache_ttl"))

	extractor, err := provider.NewExtractor(
		v.GetString("extraction.provider"), v.GetString("extraction.model"),
	)

	if err != nil {
		return nil, err
	}

	return memory.NewManager(cached, vectors, extractor)
}

var longServe = `
Serve the recall memory API over HTTP.

Examples:
  # Serve on the default port
  recall serve

  # Serve on port 8080
  recall serve --port 8080

  # Store memories without running the server
  recall remember -u alice "I live in Berlin and I work as a translator"

  # Search stored memories
  recall search -u alice "where does alice live" --limit 5

  # Delete a memory by ID
  recall forget 1b7c9d8e-184a-4f4e-93d5-6c8f0a2f9f10
`
