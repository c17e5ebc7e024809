// Command assembler is the CLI front-end for the two-pass EDU-CPU
// assembler: it reads a source file, assembles it, always writes a .lst
// listing, and (unless --listing-only) writes an object file in the
// requested format next to the source.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eduproc/educpu/pkg/assembler"
	"github.com/eduproc/educpu/pkg/objfmt"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "assembler:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var format string
	var listingOnly bool

	cmd := &cobra.Command{
		Use:           "assembler <source>",
		Short:         "Two-pass assembler for the EDU-CPU instruction set",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return assembleFile(args[0], format, listingOnly)
		},
	}
	cmd.Flags().StringVar(&format, "format", "bin", "output object format: bin, hex, or srec")
	cmd.Flags().BoolVar(&listingOnly, "listing-only", false, "only produce the .lst listing; skip the object file")
	return cmd
}

func assembleFile(path, formatName string, listingOnly bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res, err := assembler.Assemble(string(src))
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	if err := writeListing(stem+".lst", res.Listing); err != nil {
		return err
	}
	if listingOnly {
		return nil
	}

	format, err := parseFormat(formatName)
	if err != nil {
		return err
	}
	data, err := objfmt.Write(res.Image, format, filepath.Base(stem))
	if err != nil {
		return err
	}
	return os.WriteFile(stem+format.Extension(), data, 0o644)
}

func parseFormat(name string) (objfmt.Format, error) {
	switch name {
	case "bin":
		return objfmt.FormatBin, nil
	case "hex":
		return objfmt.FormatHex, nil
	case "srec":
		return objfmt.FormatSRec, nil
	default:
		return 0, fmt.Errorf("unknown --format %q (want bin, hex, or srec)", name)
	}
}

func writeListing(path string, records []assembler.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, r := range records {
		if _, err := fmt.Fprintln(f, r.String()); err != nil {
			return err
		}
	}
	return nil
}
