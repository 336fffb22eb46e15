package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/spf13/cobra"
	"github.com/viant/kdcos/engine"
	"github.com/viant/kdcos/index"
	"github.com/viant/kdcos/index/kd"
	"github.com/viant/kdcos/vector"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kdcos",
		Short:         "Cosine nearest-neighbor search over a KD-tree",
		Long:          `Load points into a SQLite dataset and answer most-similar-point queries with a KD-tree.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		NewLoadCmd(),
		NewImportCmd(),
		NewNearestCmd(),
		NewVerifyCmd(),
		NewStatsCmd(),
		NewDatasetsCmd(),
		NewRemoveCmd(),
	)
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	cmd.PersistentFlags().String("db", "", "SQLite database path")
	cmd.PersistentFlags().String("dataset", "", "Dataset name")
	cmd.PersistentFlags().String("prune", "", "Pruning strategy (cosine|axis-gap|none)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

// resolveConfig loads the config file and applies explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		cfg.DB = f.Value.String()
	}
	if f := cmd.Flags().Lookup("dataset"); f != nil && f.Changed {
		cfg.Dataset = f.Value.String()
	}
	if f := cmd.Flags().Lookup("prune"); f != nil && f.Changed {
		cfg.Prune = f.Value.String()
	}
	return cfg, nil
}

// session bundles the resources a command needs.
type session struct {
	cfg   *Config
	db    *sql.DB
	store *vector.SQLiteStore
}

func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := engine.RegisterVectorFunctions(); err != nil {
		return nil, err
	}
	db, err := engine.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	store, err := vector.NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &session{cfg: cfg, db: db, store: store}, nil
}

func (s *session) Close() error { return s.db.Close() }

// records loads the dataset as parallel id and point slices.
func (s *session) records(ctx context.Context) ([]string, []vector.Point, error) {
	recs, err := s.store.Points(ctx, s.cfg.Dataset)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, len(recs))
	points := make([]vector.Point, len(recs))
	for i, r := range recs {
		ids[i], points[i] = r.ID, r.Point
	}
	return ids, points, nil
}

// buildIndex rebuilds the KD-tree index from the stored dataset.
func (s *session) buildIndex(ctx context.Context) (*kd.Index, []string, []vector.Point, error) {
	ids, points, err := s.records(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	opts, err := s.cfg.TreeOptions()
	if err != nil {
		return nil, nil, nil, err
	}
	idx := kd.New(opts...)
	if err := idx.Build(ids, points); err != nil {
		return nil, nil, nil, err
	}
	return idx, ids, points, nil
}

// sqlNearest answers a query with an exhaustive kd_cosine scan inside SQLite.
// Ties go to the earliest stored point, as with the brute-force index.
func (s *session) sqlNearest(ctx context.Context, query vector.Point) (index.Match, bool, error) {
	var (
		m    index.Match
		blob []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, coords, kd_cosine(coords, ?) AS score FROM points
WHERE dataset = ? ORDER BY score DESC, rowid LIMIT 1`, vector.EncodePoint(query), s.cfg.Dataset).Scan(&m.ID, &blob, &m.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return index.Match{}, false, nil
	}
	if err != nil {
		return index.Match{}, false, err
	}
	if m.Point, err = vector.DecodePoint(blob); err != nil {
		return index.Match{}, false, err
	}
	return m, true, nil
}
