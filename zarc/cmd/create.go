/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"io"

	"github.com/indrora/zar/zar/format"
	"github.com/indrora/zar/zar/headergen"
	zio "github.com/indrora/zar/zar/ioutil"
	"github.com/indrora/zar/zar/manifest"
	"github.com/indrora/zar/zar/writer"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var createOpts struct {
	manifest string
	all      bool
	header   string
	prefix   string
	guard    string
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create [ARCHIVE DIR]",
	Short: "Create a ZAR archive",
	Long: `Create an archive from the files directly inside a directory.

Files are added in name order. Dot-files are skipped unless --all is given,
and subdirectories are never descended into. With --manifest, the archive,
its sources and the optional header file are taken from a YAML manifest
instead of the command line.

The archive is written to a temporary file and renamed into place, so a
failed build never leaves a partial archive behind.`,
	Example: `zarc create assets.zar ./assets
zarc create --header assets.h --prefix ASSET_ assets.zar ./assets
zarc create -m zar.yaml`,
	Args: func(cmd *cobra.Command, args []string) error {
		if createOpts.manifest != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	var (
		dest    string
		sources []string
		hdrPath string
		hdrOpts headergen.Options
		err     error
	)

	if createOpts.manifest != "" {
		m, err := manifest.Load(createOpts.manifest)
		if err != nil {
			return err
		}
		dest = m.OutputPath()
		if sources, err = m.Sources(); err != nil {
			return err
		}
		if m.Header != nil {
			hdrPath = m.HeaderPath()
			hdrOpts = headergen.Options{Prefix: m.Header.Prefix, Guard: m.Header.Guard}
		}
	} else {
		dest = args[0]
		if sources, err = writer.ListSources(args[1], createOpts.all); err != nil {
			return err
		}
		hdrPath = createOpts.header
		hdrOpts = headergen.Options{Prefix: createOpts.prefix, Guard: createOpts.guard}
	}

	log.WithFields(log.Fields{"archive": dest, "files": len(sources)}).Info("archiving")

	entries, err := writer.BuildFile(dest, sources, writer.WithLogger(log.StandardLogger()))
	if err != nil {
		return errors.Wrapf(err, "creating %s", dest)
	}

	total := format.HeaderSize(len(entries))
	for _, e := range entries {
		total += int(e.Size)
	}
	log.WithFields(log.Fields{"archive": dest, "entries": len(entries), "bytes": total}).Info("done")

	if hdrPath != "" {
		err := zio.WriteFileAtomic(hdrPath, func(w io.Writer) error {
			return headergen.Generate(w, entries, hdrOpts)
		})
		if err != nil {
			return errors.Wrapf(err, "writing header %s", hdrPath)
		}
		log.WithField("header", hdrPath).Info("wrote header")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createOpts.manifest, "manifest", "m", "", "Read archive, sources and header settings from a YAML manifest")
	createCmd.Flags().BoolVarP(&createOpts.all, "all", "a", false, "Include dot-files")
	createCmd.Flags().StringVar(&createOpts.header, "header", "", "Also write a C header naming every entry")
	createCmd.Flags().StringVar(&createOpts.prefix, "prefix", "", "Prefix for constants in the header")
	createCmd.Flags().StringVar(&createOpts.guard, "guard", "", "Include guard and enum name for the header")
}
