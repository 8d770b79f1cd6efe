package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/alphabeta/internal/archive"
	"github.com/discochess/alphabeta/internal/archive/archiveurl"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Browse archived games",
	Long: `List and print games kept by 'alphabeta match --archive'.

Examples:
  alphabeta games list --archive ./archive
  alphabeta games show --archive gs://my-bucket/alphabeta 20260102T030405.000000000Z`,
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived game IDs, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runGamesList,
}

var gamesShowCmd = &cobra.Command{
	Use:   "show [ID]",
	Short: "Print an archived game as PGN",
	Args:  cobra.ExactArgs(1),
	RunE:  runGamesShow,
}

func init() {
	gamesCmd.AddCommand(gamesListCmd, gamesShowCmd)
	rootCmd.AddCommand(gamesCmd)
}

func openArchive(ctx context.Context) (archive.Store, error) {
	if archiveLocation == "" {
		return nil, errors.New("--archive is required")
	}
	c, err := archiveurl.Codec(compression)
	if err != nil {
		return nil, err
	}
	return archiveurl.Open(ctx, archiveLocation, c)
}

func runGamesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openArchive(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	ids, err := st.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func runGamesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openArchive(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	pgn, err := st.Get(ctx, args[0])
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			return fmt.Errorf("game %s not found in %s", args[0], archiveLocation)
		}
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(pgn))
	return nil
}
