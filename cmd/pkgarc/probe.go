package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keystone-archive/pkgcore/bzip2x"
	"github.com/keystone-archive/pkgcore/pkgfmt"
)

var probeCmd = &cobra.Command{
	Use:   "probe <archive> [entry]",
	Short: "Dump PKG header/table framing, or preview one entry's compression",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := namedLogger("bzip2")
		path := args[0]

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		a, err := pkgfmt.Open(f, info.Size())
		if err != nil {
			logger.Error("header/table parse failed", "path", path, "error", err)
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "content_id  %s\n", a.Header.ContentID())
		fmt.Fprintf(out, "encrypted   %v\n", a.Header.IsEncrypted)
		fmt.Fprintf(out, "items       %d\n", a.Header.ItemCount)
		fmt.Fprintf(out, "data_offset %d\n", a.Header.DataOffset)
		fmt.Fprintf(out, "data_size   %d\n", a.Header.DataSize)
		fmt.Fprintf(out, "total_size  %d\n", a.Header.TotalSize)

		if len(args) == 1 {
			return nil
		}

		entry, err := findEntry(a, args[1])
		if err != nil {
			return err
		}

		data, err := a.ExtractFileData(entry)
		if err != nil {
			logger.Error("extract failed", "entry", entry.Path, "error", err)
			return err
		}

		fmt.Fprintf(out, "\nentry       %s\n", entry.Path)
		fmt.Fprintf(out, "raw_bytes   %d\n", len(data))
		if len(data) >= 4 && bytes.Equal(data[:3], []byte{0x42, 0x5A, 0x68}) {
			logger.Debug("entry looks bzip2-framed", "entry", entry.Path)
			decoded, err := bzip2x.Decode(bytes.NewReader(data))
			if err != nil {
				logger.Error("bzip2 decode failed", "entry", entry.Path, "error", err)
				return err
			}
			fmt.Fprintf(out, "bzip2       yes\n")
			fmt.Fprintf(out, "decoded_bytes %d\n", len(decoded))
		} else {
			fmt.Fprintf(out, "bzip2       no\n")
		}
		return nil
	},
}

func findEntry(a *pkgfmt.Archive, path string) (pkgfmt.Entry, error) {
	for _, e := range a.Items {
		if e.Path == path {
			return e, nil
		}
	}
	return pkgfmt.Entry{}, fmt.Errorf("probe: entry %q not found", path)
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
