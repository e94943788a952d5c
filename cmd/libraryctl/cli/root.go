package cli

import (
	"context"

	"github.com/dalemusser/libraryhub/internal/app/bootstrap"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	mongoURI      string
	mongoDatabase string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "libraryctl",
	Short: "LibraryHub operator tools",
	Long: `libraryctl reads the library database directly to print the
dashboard or run maintenance passes without going through the web server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	rootCmd.PersistentFlags().StringVar(&mongoDatabase, "mongo-database", "library", "MongoDB database name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log queries and slice failures to stderr")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// connect opens the database named by the persistent flags. The caller
// must call the returned close function.
func connect(ctx context.Context) (*mongo.Database, func(), error) {
	client, err := bootstrap.Connect(ctx, bootstrap.AppConfig{
		MongoURI:         mongoURI,
		MongoDatabase:    mongoDatabase,
		MongoMaxPoolSize: 16,
	})
	if err != nil {
		return nil, nil, err
	}
	return client.Database(mongoDatabase), func() { _ = client.Disconnect(context.Background()) }, nil
}
