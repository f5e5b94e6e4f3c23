/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/indrora/zar/zar/reader"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listOpts struct {
	output string
	digest bool
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list ARCHIVE",
	Aliases: []string{"ls"},
	Short:   "List the directory of a ZAR archive",
	Long: `List every entry of an archive with its index, name, size and offset.

Only the directory is read unless --digest is given, which hashes each
payload with BLAKE2b-256 so archives can be compared entry by entry.
--output selects text (default), yaml, json or cbor.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	f, err := reader.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()

	if listOpts.output == "text" {
		if err := reader.List(out, f.Entries()); err != nil {
			return err
		}
		if !listOpts.digest {
			return nil
		}
	}

	records, err := f.Records(listOpts.digest)
	if err != nil {
		return err
	}
	return writeRecords(out, listOpts.output, records)
}

func writeRecords(out io.Writer, format string, records []reader.Record) error {
	switch format {
	case "text":
		for _, rec := range records {
			if _, err := fmt.Fprintf(out, "%3d  %s\n", rec.Index, rec.Digest); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(out)
		if err := enc.Encode(records); err != nil {
			return errors.Wrap(err, "failed to encode yaml")
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(records), "failed to encode json")
	case "cbor":
		data, err := cbor.Marshal(records)
		if err != nil {
			return errors.Wrap(err, "failed to marshal cbor")
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listOpts.output, "output", "o", "text", "Output format: text, yaml, json or cbor")
	listCmd.Flags().BoolVar(&listOpts.digest, "digest", false, "Include a BLAKE2b-256 digest of each payload")
}
