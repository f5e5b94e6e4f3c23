/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"io"

	"github.com/indrora/zar/zar/headergen"
	zio "github.com/indrora/zar/zar/ioutil"
	"github.com/indrora/zar/zar/reader"
	"github.com/spf13/cobra"
)

var headerOpts headergen.Options

// headerCmd represents the header command
var headerCmd = &cobra.Command{
	Use:   "header ARCHIVE [OUT]",
	Short: "Write a C header naming the entries of an archive",
	Long: `Write a C header with one enum constant per archive entry, set to the
entry's directory index and annotated with its offset and size. The header
goes to OUT, or to standard output when OUT is omitted.`,
	Example: "zarc header --prefix ASSET_ --guard assets assets.zar assets.h",
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := reader.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if len(args) == 1 {
			return headergen.Generate(cmd.OutOrStdout(), f.Entries(), headerOpts)
		}
		return zio.WriteFileAtomic(args[1], func(w io.Writer) error {
			return headergen.Generate(w, f.Entries(), headerOpts)
		})
	},
}

func init() {
	rootCmd.AddCommand(headerCmd)
	headerCmd.Flags().StringVarP(&headerOpts.Prefix, "prefix", "p", "", "Prefix for every constant")
	headerCmd.Flags().StringVarP(&headerOpts.Guard, "guard", "g", "", "Include guard and enum name (default ZAR)")
}
