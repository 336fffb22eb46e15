package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/kdcos/engine"
	"github.com/viant/kdcos/vector"
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <source.sqlite>",
		Short: "Import float32 embeddings from another SQLite database",
		Long: `Copy rows of an embedding table into the dataset. The embedding column
holds little-endian float32 BLOBs, as written by SQLite vector stores; each
embedding is widened to a float64 point. Rows with a NULL embedding are
skipped and existing ids are overwritten.`,
		Example: `  kdcos import docs.sqlite --table _vec_docs`,
		Args:    cobra.ExactArgs(1),
		RunE:    runImport,
	}
	cmd.Flags().String("table", "", "Source table")
	cmd.Flags().String("id-column", "id", "Source column holding record ids")
	cmd.Flags().String("embedding-column", "embedding", "Source column holding float32 embedding BLOBs")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	table, _ := cmd.Flags().GetString("table")
	idCol, _ := cmd.Flags().GetString("id-column")
	embCol, _ := cmd.Flags().GetString("embedding-column")

	ctx := cmd.Context()
	src, err := engine.Open(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s IS NOT NULL`,
		quoteIdent(idCol), quoteIdent(embCol), quoteIdent(table), quoteIdent(embCol))
	rows, err := src.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer rows.Close()

	var records []vector.Record
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		embedding, err := vector.DecodeEmbedding(blob)
		if err != nil {
			return fmt.Errorf("import: row %q: %w", id, err)
		}
		p, err := vector.FromFloat32(embedding)
		if err != nil {
			return fmt.Errorf("import: row %q: %w", id, err)
		}
		records = append(records, vector.Record{ID: id, Point: p})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ids, err := s.store.AddPoints(ctx, s.cfg.Dataset, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d embeddings from %s into %q\n", len(ids), table, s.cfg.Dataset)
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
