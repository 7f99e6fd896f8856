package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nagardrishti/complaint-service/internal/category"
)

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Classify a photo and print the suggested complaint category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		image, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		rdb := cacheRedis(cmd.Context(), cfg, logger)
		defer rdb.Close()

		predictions := buildClassifier(cfg.Classifier, rdb, logger).Classify(cmd.Context(), image)
		out := cmd.OutOrStdout()
		for _, p := range predictions {
			fmt.Fprintf(out, "%-32s %.4f\n", p.Label, p.Confidence)
		}
		suggestion := category.Infer(predictions)
		if suggestion.Known {
			fmt.Fprintf(out, "suggested category: %d %s (label %q)\n", suggestion.ID, suggestion.Name, suggestion.Label)
		} else {
			fmt.Fprintf(out, "suggested category: %s\n", category.UnknownName)
		}
		return nil
	},
}
