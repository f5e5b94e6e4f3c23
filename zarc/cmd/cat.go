/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"io"
	"strconv"

	"github.com/indrora/zar/zar/format"
	"github.com/indrora/zar/zar/reader"
	"github.com/spf13/cobra"
)

// catCmd represents the cat command
var catCmd = &cobra.Command{
	Use:   "cat ARCHIVE NAME|INDEX",
	Short: "Write one entry of an archive to standard output",
	Long: `Write the payload of a single entry to standard output. The entry is
found by its short name (as shown by list) or, failing that, by index.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := reader.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		e, err := findEntry(f.Reader, args[1])
		if err != nil {
			return err
		}
		sr, err := f.EntryReader(e)
		if err != nil {
			return err
		}
		_, err = io.Copy(cmd.OutOrStdout(), sr)
		return err
	},
}

func findEntry(r *reader.Reader, key string) (format.Entry, error) {
	e, err := r.Lookup(key)
	if err == nil {
		return e, nil
	}
	if idx, perr := strconv.Atoi(key); perr == nil {
		return r.Entry(idx)
	}
	return format.Entry{}, err
}

func init() {
	rootCmd.AddCommand(catCmd)
}
