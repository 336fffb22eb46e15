package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List datasets holding points",
		Args:  cobra.NoArgs,
		RunE:  runDatasets,
	}
}

func runDatasets(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	names, err := s.store.Datasets(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if names == nil {
			names = []string{}
		}
		return json.NewEncoder(out).Encode(names)
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove points from the dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, id := range args {
		if err := s.store.Remove(ctx, s.cfg.Dataset, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %q from %q\n", id, s.cfg.Dataset)
	}
	return nil
}
