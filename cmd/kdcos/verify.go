package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"github.com/viant/kdcos/index"
	"github.com/viant/kdcos/index/bruteforce"
	"github.com/viant/kdcos/vector"
)

// scoreSlack tolerates rounding differences between SQL and in-memory scores.
const scoreSlack = 1e-12

type mismatch struct {
	Query   []float64 `json:"query"`
	Oracle  string    `json:"oracle"`
	TreeID  string    `json:"tree_id"`
	TreeSim float64   `json:"tree_similarity"`
	WantID  string    `json:"want_id"`
	WantSim float64   `json:"want_similarity"`
}

type verifyReport struct {
	Queries    int        `json:"queries"`
	Mismatches []mismatch `json:"mismatches"`
}

func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Cross-check the KD-tree against a brute-force scan",
		Long: `Query the KD-tree with every stored point, every --query point and
--random points drawn from the dataset's bounding box, and compare each
answer with two exhaustive scans: one in memory and one in SQLite ordering
by kd_cosine. Fails when any answer is less similar than an exhaustive one.`,
		Args: cobra.NoArgs,
		RunE: runVerify,
	}
	cmd.Flags().Int("random", 100, "Number of random queries")
	cmd.Flags().Uint64("seed", 1, "Seed for random queries")
	cmd.Flags().StringArray("query", nil, "Extra query point as comma-separated coordinates (repeatable)")
	return cmd
}

func runVerify(cmd *cobra.Command, _ []string) error {
	n, _ := cmd.Flags().GetInt("random")
	seed, _ := cmd.Flags().GetUint64("seed")
	extra, _ := cmd.Flags().GetStringArray("query")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	idx, ids, points, err := s.buildIndex(ctx)
	if err != nil {
		return err
	}
	oracle := &bruteforce.Index{}
	if err := oracle.Build(ids, points); err != nil {
		return err
	}

	queries := append([]vector.Point(nil), points...)
	for _, q := range extra {
		p, err := parsePoint([]string{q})
		if err != nil {
			return err
		}
		queries = append(queries, p)
	}
	queries = append(queries, randomQueries(points, n, seed)...)

	report := verifyReport{Queries: len(queries)}
	for _, q := range queries {
		got, _, err := idx.Nearest(q)
		if err != nil {
			return err
		}
		want, _, err := oracle.Nearest(q)
		if err != nil {
			return err
		}
		if got.Score < want.Score-scoreSlack {
			report.Mismatches = append(report.Mismatches, newMismatch(q, "brute force", got, want))
		}
		want, _, err = s.sqlNearest(ctx, q)
		if err != nil {
			return err
		}
		if got.Score < want.Score-scoreSlack {
			report.Mismatches = append(report.Mismatches, newMismatch(q, "sql", got, want))
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, m := range report.Mismatches {
			fmt.Fprintf(out, "query %v: tree %s (%.6f), %s %s (%.6f)\n", m.Query, m.TreeID, m.TreeSim, m.Oracle, m.WantID, m.WantSim)
		}
		fmt.Fprintf(out, "%d queries, %d mismatches (%s)\n", report.Queries, len(report.Mismatches), idx.Tree().Pruning())
	}
	if len(report.Mismatches) > 0 {
		return fmt.Errorf("verify: %d mismatches over %d queries", len(report.Mismatches), report.Queries)
	}
	return nil
}

func newMismatch(q vector.Point, oracle string, got, want index.Match) mismatch {
	return mismatch{
		Query:   q.Coordinates(),
		Oracle:  oracle,
		TreeID:  got.ID,
		TreeSim: got.Score,
		WantID:  want.ID,
		WantSim: want.Score,
	}
}

// randomQueries draws n points uniformly from the bounding box of points.
func randomQueries(points []vector.Point, n int, seed uint64) []vector.Point {
	if len(points) == 0 || n <= 0 {
		return nil
	}
	dim := points[0].Dim()
	lo, hi := points[0].Coordinates(), points[0].Coordinates()
	for _, p := range points[1:] {
		for a := 0; a < dim; a++ {
			lo[a] = min(lo[a], p.At(a))
			hi[a] = max(hi[a], p.At(a))
		}
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]vector.Point, n)
	for i := range out {
		coords := make([]float64, dim)
		for a := range coords {
			coords[a] = lo[a] + r.Float64()*(hi[a]-lo[a])
		}
		out[i] = vector.MustNew(coords...)
	}
	return out
}
