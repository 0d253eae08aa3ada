package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <archive>",
	Short: "List entries in an archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := namedLogger("parse")
		path := args[0]

		h, f, err := openHandler(path)
		if err != nil {
			logger.Error("open failed", "path", path, "error", err)
			return err
		}
		defer f.Close()

		n := h.NumItems()
		logger.Debug("parsed file table", "path", path, "items", n)

		for i := 0; i < n; i++ {
			item, err := h.Item(i)
			if err != nil {
				logger.Error("item lookup failed", "index", i, "error", err)
				return err
			}
			kind := "file"
			if item.IsDirectory {
				kind = "dir"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%5s %10d  %s\n", kind, item.Size, item.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
