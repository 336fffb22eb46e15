package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/kdcos/vector"
)

func NewLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.csv>",
		Short: "Load points into a dataset",
		Long: `Load points from a CSV file into the dataset. Each line holds an id
followed by the point coordinates, e.g. "p1,4.5,4.0". Lines starting with #
are ignored and existing ids are overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: runLoad,
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := readRecords(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	ctx := cmd.Context()
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ids, err := s.store.AddPoints(ctx, s.cfg.Dataset, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d points into %q\n", len(ids), s.cfg.Dataset)
	return nil
}

func readRecords(r io.Reader) ([]vector.Record, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []vector.Record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(fields) < 2 {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: want id and at least one coordinate", line)
		}
		p, err := parsePoint(fields[1:])
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, vector.Record{ID: strings.TrimSpace(fields[0]), Point: p})
	}
}
