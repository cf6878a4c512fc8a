package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

var rankCmd = &cobra.Command{
	Use:   "rank [resume files...]",
	Short: "Rank resumes against a job description",
	Long:  "Extracts text from PDF and DOCX resumes given as arguments, in a directory or under an S3 prefix, scores each against the job description and prints the ranking, best match first.",
	RunE:  runRank,
}

var (
	rankJob      string
	rankDir      string
	rankS3Bucket string
	rankS3Prefix string
	rankCSV      string
	rankWeight   float64
)

func init() {
	rankCmd.Flags().StringVarP(&rankJob, "job", "j", "", "Path to the job description text file, or - for stdin (required)")
	rankCmd.Flags().StringVarP(&rankDir, "dir", "d", "", "Directory of resumes to rank")
	rankCmd.Flags().StringVar(&rankS3Bucket, "s3-bucket", "", "S3 bucket holding resumes")
	rankCmd.Flags().StringVar(&rankS3Prefix, "s3-prefix", "", "Key prefix of resumes in the S3 bucket")
	rankCmd.Flags().StringVarP(&rankCSV, "csv", "o", "", "Also write the ranking to this CSV file")
	rankCmd.Flags().Float64VarP(&rankWeight, "weight", "w", services.DefaultFilenameWeight, "Filename keyword weight in [0, 1] (overrides FILENAME_WEIGHT)")

	if err := rankCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jobText, err := readJobDescription(rankJob, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if strings.TrimSpace(jobText) == "" {
		return errors.New("job description is empty")
	}

	cfg, err := loadConfig(func(cfg *config.Config) {
		if cmd.Flags().Changed("weight") {
			cfg.Scoring.FilenameWeight = rankWeight
		}
	})
	if err != nil {
		return err
	}

	files, err := collectResumes(ctx, cfg, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no resumes given, pass files, --dir or --s3-bucket")
	}

	_, components, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	matcher := components.NewMatcher(nil)

	docs := make([]models.ResumeDocument, len(files))
	for i, f := range files {
		docs[i] = matcher.ExtractBytes(f.Name, f.Data)
	}

	outcome, err := matcher.Match(ctx, jobText, docs)
	if err != nil {
		return err
	}

	printRanking(cmd.OutOrStdout(), outcome.Results)

	if rankCSV != "" {
		var buf bytes.Buffer
		if err := services.WriteResultsCSV(&buf, outcome.Results); err != nil {
			return err
		}
		if err := os.WriteFile(rankCSV, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write csv file %s: %w", rankCSV, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📥 Results written to %s\n", rankCSV)
	}

	return nil
}

func readJobDescription(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read job description from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description file %s: %w", path, err)
	}
	return string(data), nil
}

// collectResumes gathers explicit files first, then the directory, then S3.
func collectResumes(ctx context.Context, cfg *config.Config, paths []string) ([]services.ResumeFile, error) {
	var files []services.ResumeFile

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read resume %s: %w", p, err)
		}
		files = append(files, services.ResumeFile{Name: filepath.Base(p), Data: data})
	}

	var sources []services.ResumeSource
	if rankDir != "" {
		sources = append(sources, services.NewDirSource(rankDir))
	}
	if rankS3Bucket != "" {
		client, err := services.NewS3Client(ctx, services.S3Options{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		sources = append(sources, services.NewS3Source(client, rankS3Bucket, rankS3Prefix))
	}

	for _, src := range sources {
		batch, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		files = append(files, batch...)
	}

	return files, nil
}

func printRanking(w io.Writer, results []models.ScoreResult) {
	for i, r := range results {
		line := fmt.Sprintf("%d. %s: 🎯 %s%%", i+1, r.Name, services.FormatScore(r.Score))
		if r.Status != "" && r.Status != models.ExtractionOK {
			line += fmt.Sprintf(" (%s)", r.Status)
		}
		fmt.Fprintln(w, line)
	}
}
