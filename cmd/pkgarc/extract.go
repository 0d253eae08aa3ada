package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	extractOutDir string
	extractAll    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive> [path...]",
	Short: "Extract one or more entries from an archive to disk",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := uuid.New().String()
		logger := namedLogger("extract").With("run_id", runID)

		path := args[0]
		wanted := args[1:]
		if len(wanted) == 0 && !extractAll {
			return fmt.Errorf("extract: no entry paths given; pass one or more, or --all")
		}

		h, f, err := openHandler(path)
		if err != nil {
			logger.Error("open failed", "path", path, "error", err)
			return err
		}
		defer f.Close()

		if err := os.MkdirAll(extractOutDir, 0o755); err != nil {
			logger.Error("create output directory failed", "dir", extractOutDir, "error", err)
			return err
		}

		n := h.NumItems()
		extracted := 0
		for i := 0; i < n; i++ {
			item, err := h.Item(i)
			if err != nil {
				return err
			}
			if item.IsDirectory {
				continue
			}
			if !extractAll && !matchesAny(item.Path, wanted) {
				continue
			}

			data, err := h.Extract(i)
			if err != nil {
				logger.Error("extract failed", "entry", item.Path, "error", err)
				return fmt.Errorf("extract %s: %w", item.Path, err)
			}

			dest := filepath.Join(extractOutDir, filepath.FromSlash(item.Path))
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return err
			}
			logger.Info("extracted entry", "entry", item.Path, "bytes", len(data), "dest", dest)
			extracted++
		}

		if extracted == 0 {
			return fmt.Errorf("extract: no matching entries found in %s", path)
		}
		logger.Info("extraction complete", "count", extracted)
		return nil
	},
}

func matchesAny(entryPath string, wanted []string) bool {
	for _, w := range wanted {
		if entryPath == w || strings.TrimPrefix(entryPath, "/") == strings.TrimPrefix(w, "/") {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractOutDir, "out", ".", "directory to write extracted files to")
	extractCmd.Flags().BoolVar(&extractAll, "all", false, "extract every file entry")
}
