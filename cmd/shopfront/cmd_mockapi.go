package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shopfront/internal/mockapi"
)

var (
	mockAddr   string
	mockSeed   string
	mockSecret string
	mockWatch  bool
)

// mockapiCmd runs the embedded Fake Store compatible server, for
// offline demos and development:
//
//	shopfront mockapi &
//	shopfront --api-url http://localhost:8945
var mockapiCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Run an embedded Fake Store compatible API server",
	Long: `Run a local server implementing the slice of the Fake Store API the
storefront consumes. Ships with a built-in catalog; pass --seed to
serve your own products/users JSON, and --watch to hot-reload it on
change.`,
	RunE: runMockAPI,
}

func init() {
	mockapiCmd.Flags().StringVar(&mockAddr, "addr", ":8945", "listen address")
	mockapiCmd.Flags().StringVar(&mockSeed, "seed", "", "seed JSON file (default: embedded catalog)")
	mockapiCmd.Flags().StringVar(&mockSecret, "secret", "", "JWT signing secret")
	mockapiCmd.Flags().BoolVar(&mockWatch, "watch", false, "reload the seed file when it changes")
}

func runMockAPI(cmd *cobra.Command, args []string) error {
	server, err := mockapi.NewServer(mockapi.Options{
		SeedPath: mockSeed,
		Secret:   mockSecret,
		Watch:    mockWatch,
	})
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down mock API")
		_ = server.Shutdown()
	}()

	logger.Info("mock API starting", zap.String("addr", mockAddr))
	cmd.Printf("Mock store API on %s (Ctrl+C to stop)\n", mockAddr)
	return server.Listen(mockAddr)
}
