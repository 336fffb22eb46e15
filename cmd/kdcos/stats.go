package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type statsResult struct {
	Dataset string `json:"dataset"`
	Points  int    `json:"points"`
	Dim     int    `json:"dim"`
	Depth   int    `json:"depth"`
	Pruning string `json:"pruning"`
}

func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the shape of the tree built from the dataset",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	idx, _, _, err := s.buildIndex(ctx)
	if err != nil {
		return err
	}
	tree := idx.Tree()
	res := statsResult{
		Dataset: s.cfg.Dataset,
		Points:  tree.Len(),
		Dim:     tree.Dim(),
		Depth:   tree.Depth(),
		Pruning: tree.Pruning().String(),
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(out, "dataset %q: %d points, dim %d, depth %d, pruning %s\n", res.Dataset, res.Points, res.Dim, res.Depth, res.Pruning)
	return nil
}
