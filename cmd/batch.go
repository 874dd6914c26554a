package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tanq16/galgrab/internal/utils"
	"gopkg.in/yaml.v3"
)

type BatchEntry struct {
	URL          string `yaml:"url"`
	Directory    string `yaml:"directory,omitempty"`
	Workers      int    `yaml:"num_threads,omitempty"`
	ImagePattern string `yaml:"image_pattern,omitempty"`
}

type BatchFile struct {
	Galleries []BatchEntry `yaml:"galleries"`
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE] [OPTIONS]",
		Short: "Download several galleries listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("error reading YAML file: %w", err)
			}
			var batchFile BatchFile
			if err := yaml.Unmarshal(data, &batchFile); err != nil {
				return fmt.Errorf("error parsing YAML file: %w", err)
			}
			jobs, err := buildJobsFromBatch(batchFile)
			if err != nil {
				return fmt.Errorf("error in batch file: %w", err)
			}
			if len(jobs) == 0 {
				return errors.New("no valid galleries found in the batch file")
			}
			return runGalleries(cmd.Context(), jobs)
		},
	}
	return cmd
}

func buildJobsFromBatch(batchFile BatchFile) ([]utils.GalleryJob, error) {
	var jobs []utils.GalleryJob
	for i, entry := range batchFile.Galleries {
		entry.URL = strings.TrimSpace(entry.URL)
		if entry.URL == "" {
			fmt.Fprintf(os.Stderr, "Warning: Empty url in entry %d, skipping...\n", i+1)
			continue
		}
		if entry.Workers < 0 {
			return nil, fmt.Errorf("entry %d: num_threads must be a positive integer, got %d", i+1, entry.Workers)
		}
		job := utils.GalleryJob{
			ID:               uuid.NewString(),
			URL:              entry.URL,
			Directory:        entry.Directory,
			Workers:          workers,
			ImagePattern:     imagePattern,
			HTTPClientConfig: globalHTTPConfig,
		}
		if entry.Workers > 0 {
			job.Workers = entry.Workers
		}
		if entry.ImagePattern != "" {
			job.ImagePattern = entry.ImagePattern
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
