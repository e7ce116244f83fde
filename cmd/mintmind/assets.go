package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/mintmind/internal/service/assetstore"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print every stored asset collection keyed by wallet address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAssetStore(cmd.Context(), func(s *assetstore.Store) error {
				return exportAssets(cmd.Context(), cmd.OutOrStdout(), s, format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many assets are stored per wallet address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAssetStore(cmd.Context(), func(s *assetstore.Store) error {
				printStats(cmd.Context(), cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func newClearCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored asset collection of one wallet address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(address) == "" {
				return fmt.Errorf("--address is required")
			}
			return withAssetStore(cmd.Context(), func(s *assetstore.Store) error {
				s.Clear(cmd.Context(), address)
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", strings.ToLower(address))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "wallet address whose collection is removed")
	return cmd
}

func exportAssets(ctx context.Context, w io.Writer, s *assetstore.Store, format string) error {
	all := s.ExportAll(ctx)

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(all)

	case formatYAML:
		// Round-trip through JSON so YAML keys match the persisted field names.
		data, err := json.Marshal(all)
		if err != nil {
			return fmt.Errorf("encode assets: %w", err)
		}
		var generic map[string]any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("decode assets: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatJSON, formatYAML)
	}
}

func printStats(ctx context.Context, w io.Writer, s *assetstore.Store) {
	addresses := s.ListAddresses(ctx)
	for _, addr := range addresses {
		fmt.Fprintf(w, "%s\t%d\n", addr, len(s.Load(ctx, addr)))
	}
	fmt.Fprintf(w, "addresses: %d, assets: %d\n", len(addresses), s.TotalAssetCount(ctx))
}
