package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/kdcos/vector"
)

type nearestResult struct {
	Found      bool      `json:"found"`
	ID         string    `json:"id,omitempty"`
	Point      []float64 `json:"point,omitempty"`
	Similarity float64   `json:"similarity"`
	Visited    int       `json:"visited"`
	Pruned     int       `json:"pruned"`
}

func NewNearestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nearest [coordinate...]",
		Short: "Find the most similar point",
		Long: `Build the KD-tree from the dataset and print the point with the highest cosine similarity to the query.

Coordinates are given as arguments or with --query. A negative first
coordinate reads as a flag, so pass it as --query=-0.7,0.2 or after "--".`,
		Example: `  kdcos nearest 9 13
  kdcos nearest --query=-0.7,0.2
  kdcos nearest -- -0.7 0.2`,
		Args: cobra.ArbitraryArgs,
		RunE: runNearest,
	}
	cmd.Flags().StringP("query", "q", "", "Query point as comma-separated coordinates")
	cmd.Flags().Bool("stats", false, "Print visited and pruned node counts")
	return cmd
}

// queryPoint reads the query from --query or the positional arguments.
func queryPoint(cmd *cobra.Command, args []string) (vector.Point, error) {
	flag, _ := cmd.Flags().GetString("query")
	switch {
	case cmd.Flags().Changed("query") && len(args) > 0:
		return vector.Point{}, fmt.Errorf("query given both as --query and as arguments")
	case cmd.Flags().Changed("query"):
		return parsePoint([]string{flag})
	case len(args) == 0:
		return vector.Point{}, fmt.Errorf("missing query coordinates")
	}
	return parsePoint(args)
}

func runNearest(cmd *cobra.Command, args []string) error {
	query, err := queryPoint(cmd, args)
	if err != nil {
		return err
	}
	showStats, _ := cmd.Flags().GetBool("stats")
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
	m, ok, stats, err := idx.NearestWithStats(query)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		res := nearestResult{Found: ok, Visited: stats.Visited, Pruned: stats.Pruned}
		if ok {
			res.ID, res.Point, res.Similarity = m.ID, m.Point.Coordinates(), m.Score
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if !ok {
		fmt.Fprintf(out, "no points in %q\n", s.cfg.Dataset)
		return nil
	}
	fmt.Fprintf(out, "%s\t%v\t%.6f\n", m.ID, m.Point, m.Score)
	if showStats {
		fmt.Fprintf(out, "visited %d, pruned %d (%s)\n", stats.Visited, stats.Pruned, idx.Tree().Pruning())
	}
	return nil
}
