package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/arloliu/wisard/format"
	"github.com/arloliu/wisard/persist"
)

func newInspectCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the header and metadata of a model file",
		Long: `Verify a model file's checksum and print its header fields, filter
parameters and metadata.

Examples:
  wisard inspect --model model.wsd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read model: %w", err)
			}
			info, err := persist.Inspect(data)
			if err != nil {
				return fmt.Errorf("invalid model file %s: %w", path, err)
			}
			printInfo(cmd, info)

			return nil
		},
	}
	cmd.Flags().StringVar(&path, "model", "model.wsd", "model file")

	return cmd
}

func printInfo(cmd *cobra.Command, info *persist.Info) {
	out := cmd.OutOrStdout()
	h := info.Header

	kind := "wisard"
	if h.Flag.IsBinary() {
		kind = "binary"
	}
	byteOrder := "little-endian"
	if h.Flag.IsBigEndian() {
		byteOrder = "big-endian"
	}

	fmt.Fprintf(out, "model:         %s\n", kind)
	fmt.Fprintf(out, "version:       %d\n", h.Version)
	fmt.Fprintf(out, "byte order:    %s\n", byteOrder)
	fmt.Fprintf(out, "bit order:     %s\n", h.BitOrder)
	fmt.Fprintf(out, "compression:   %s\n", h.Flag.Compression)
	fmt.Fprintf(out, "input width:   %d\n", h.InputWidth)
	fmt.Fprintf(out, "address width: %d\n", h.AddressWidth)
	fmt.Fprintf(out, "labels:        %d\n", h.LabelCount)
	fmt.Fprintf(out, "payload:       %d bytes (checksum %016x)\n", h.PayloadSize, h.Checksum)
	fmt.Fprintf(out, "filter:        %s\n", info.Params.Kind)
	fmt.Fprintf(out, "counter width: %d\n", info.Params.CounterWidth)
	fmt.Fprintf(out, "threshold:     %d\n", info.Params.Threshold)
	if info.Params.Kind == format.FilterBloom {
		fmt.Fprintf(out, "fp rate:       %g\n", info.Params.Rate)
	}
	if h.Flag.IsBinary() {
		fmt.Fprintf(out, "seed:          %d\n", info.Seed)
	}
	for _, k := range slices.Sorted(maps.Keys(info.Metadata)) {
		fmt.Fprintf(out, "meta %s = %s\n", k, info.Metadata[k])
	}
}
