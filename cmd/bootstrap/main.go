package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"mateswap/internal/adapter/repository"
	"mateswap/internal/infrastructure/firebase"
	"mateswap/internal/usecase"
	"mateswap/pkg/config"
	"mateswap/pkg/logger"
)

var dryRun bool

// rootCmd creates the Firestore collections the app expects
var rootCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the MateSwap Firestore collections",
	Long: `Writes one placeholder document into each collection the app reads
so that empty collections exist in a fresh project.

Collections are created one at a time and the run stops at the first failure.`,
	SilenceUsage: true,
	RunE:         runBootstrap,
}

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the collections without writing")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.Environment)
	defer logger.Sync()

	ctx := cmd.Context()

	// dry runs never reach the writer
	writer := repository.NewFirestorePlaceholderWriter(nil)
	if !dryRun {
		if cfg.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required")
		}
		client, err := firebase.NewFirestore(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		writer = repository.NewFirestorePlaceholderWriter(client)
	}

	report, err := usecase.NewBootstrapUseCase(writer).Run(ctx, dryRun)
	out := cmd.OutOrStdout()
	if report != nil {
		verb := "Created"
		if report.DryRun {
			verb = "Would create"
		}
		for _, name := range report.Created {
			fmt.Fprintf(out, "%s collection: %s\n", verb, name)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Bootstrap finished: %s\n", strings.Join(report.Created, ", "))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
