// Command pkgarc is a small inspection CLI over the pkgfmt/archivehost
// core: list an archive's entries, extract entries to disk, or probe its
// header/table framing for diagnostics.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
