package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/services"
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-embed a directory of resumes into the qdrant cache",
	Long:  "Extracts and embeds every PDF and DOCX resume in a directory so later matches of the same resumes are served from the qdrant embedding cache.",
	RunE:  runWarm,
}

var (
	warmDir   string
	warmPurge bool
)

func init() {
	warmCmd.Flags().StringVarP(&warmDir, "dir", "d", "", "Directory of resumes to embed (required)")
	warmCmd.Flags().BoolVar(&warmPurge, "purge", false, "Drop cached vectors of the configured model first")

	if err := warmCmd.MarkFlagRequired("dir"); err != nil {
		panic(fmt.Sprintf("failed to mark dir flag as required: %v", err))
	}

	rootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	if !cfg.Qdrant.Enabled {
		return errors.New("qdrant cache is disabled, set QDRANT_ENABLED=true")
	}

	files, err := services.NewDirSource(warmDir).Fetch(ctx)
	if err != nil {
		return err
	}

	log, components, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	if components.Cache == nil {
		return errors.New("qdrant cache is not available")
	}

	if warmPurge {
		if err := components.Cache.Purge(ctx, cfg.Embedder.Model); err != nil {
			return err
		}
		fmt.Fprintf(out, "🗑️  Purged cached vectors for %s\n", cfg.Embedder.Model)
	}

	matcher := components.NewMatcher(nil)

	successCount, skipCount, failCount := 0, 0, 0
	for _, f := range files {
		doc := matcher.ExtractBytes(f.Name, f.Data)
		if doc.IsBlank() {
			fmt.Fprintf(out, "⏭️  %s: no text (%s)\n", f.Name, doc.Status)
			skipCount++
			continue
		}

		if _, err := components.Embedder.Embed(ctx, doc.Text); err != nil {
			log.Error("❌ Failed to embed resume", zap.String("name", f.Name), zap.Error(err))
			failCount++
			continue
		}

		fmt.Fprintf(out, "✅ %s\n", f.Name)
		successCount++
	}

	fmt.Fprintf(out, "📊 Embedded %d, skipped %d, failed %d\n", successCount, skipCount, failCount)

	if failCount > 0 {
		return fmt.Errorf("%d resumes failed to embed", failCount)
	}
	return nil
}
