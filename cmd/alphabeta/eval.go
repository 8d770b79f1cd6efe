package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/discochess/alphabeta"
	"github.com/discochess/alphabeta/internal/board"
	"github.com/discochess/alphabeta/internal/fen"
)

var evalCmd = &cobra.Command{
	Use:   "eval [FEN]",
	Short: "Score a position without searching",
	Long: `Score a position by material from White's point of view.

Checkmate scores +inf or -inf, and drawn positions score 0, including
draws that can only be claimed.

Examples:
  alphabeta eval "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
  alphabeta eval --breakdown "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1"`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

var showBreakdown bool

func init() {
	evalCmd.Flags().BoolVar(&showBreakdown, "breakdown", false, "show piece counts and their weights")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	engine, err := alphabeta.New(alphabeta.WithLogger(log))
	if err != nil {
		return err
	}

	score, err := engine.Evaluate(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Score: %s\n", score)

	if showBreakdown {
		m, err := fen.ParseMaterial(args[0])
		if err != nil {
			return err
		}
		printBreakdown(cmd, m.Inventory(), engine.Weights())
	}
	return nil
}

func printBreakdown(cmd *cobra.Command, inv board.Inventory, w alphabeta.Weights) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "piece\tweight\twhite\tblack\tnet\t")
	for _, k := range board.Kinds {
		white, black := inv.Count(k, true), inv.Count(k, false)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%+d\t\n", k, w.Value(k), white, black, (white-black)*w.Value(k))
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
