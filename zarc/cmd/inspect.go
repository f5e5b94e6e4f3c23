/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/indrora/zar/zar/format"
	"github.com/indrora/zar/zar/reader"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect ARCHIVE...",
	Short: "Investigate the structure of a ZAR archive",
	Long: `Investigate and show the structure of ZAR archives: the header, every
directory record as stored on disk, and whether the payloads are packed the
way the format requires.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, filename := range args {
			fmt.Fprintln(out, filename)
			if err := inspectArchive(out, filename); err != nil {
				fmt.Fprintln(out, "  error:", err)
				failed++
			}
		}
		if failed > 0 {
			return errors.Errorf("%d of %d archives failed inspection", failed, len(args))
		}
		return nil
	},
}

func inspectArchive(out io.Writer, filename string) error {
	f, err := reader.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	h := f.Header()
	fmt.Fprintf(out, "======Header ======\n")
	fmt.Fprintf(out, "Magic: %s\n", h.Magic[:])
	fmt.Fprintf(out, "Version: %d\n", h.Version)
	fmt.Fprintf(out, "Entries: %d\n", h.Count)
	fmt.Fprintf(out, "Directory: %d bytes\n", format.HeaderSize(f.Len()))
	fmt.Fprintf(out, "Archive: %d bytes\n", f.Size())

	for idx, e := range f.Entries() {
		explainEntry(out, idx, e)
	}

	return f.Verify()
}

func explainEntry(out io.Writer, idx int, e format.Entry) {

	fmt.Fprintf(out, "======Entry %d ======\n", idx)
	fmt.Fprintf(out, "Name: %s\n", e.Name)
	fmt.Fprintf(out, "Offset: %d\n", e.Offset)
	fmt.Fprintf(out, "Size: %d\n", e.Size)
	fmt.Fprint(out, spew.Sdump(e.ToBytes()))

}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
