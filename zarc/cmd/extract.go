/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"io/fs"

	"github.com/indrora/zar/zar/reader"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var extractForce bool

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract ARCHIVE DEST",
	Short: "Unwrap a ZAR archive",
	Long: `Unwrap every entry of an archive into DEST, which is created if needed.

An existing DEST is refused unless --force is given; with it, files already
there are overwritten. Entries are written in directory order, so when two
entries share a name the later one wins.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	archive, dest := args[0], args[1]

	f, err := reader.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	log.WithFields(log.Fields{
		"archive": archive,
		"version": f.Version(),
		"entries": f.Len(),
	}).Debug("opened")

	n, err := f.ExtractAll(dest, reader.ExtractOptions{
		Exclusive: !extractForce,
		Log:       log.StandardLogger(),
	})
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errors.Wrap(err, "use --force to extract into an existing directory")
		}
		return err
	}
	log.WithFields(log.Fields{"dest": dest, "files": n}).Info("extracted")
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVarP(&extractForce, "force", "f", false, "Extract into an existing directory, overwriting files")
}
