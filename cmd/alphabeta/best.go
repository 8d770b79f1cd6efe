package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/alphabeta"
)

var bestCmd = &cobra.Command{
	Use:   "best [FEN]",
	Short: "Choose a move for the side to move",
	Long: `Search every legal move to a fixed depth and print the best one.

White picks the highest score and Black the lowest. Equal scores go to the
move generated first.

Examples:
  alphabeta best "r1b1kb1r/ppp2ppp/2n1pn2/1B1pq3/3PPQ2/2N5/PPP2PPP/R1B1K1NR w KQkq - 0 7"
  alphabeta best --depth 1 --ranking "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"`,
	Args: cobra.ExactArgs(1),
	RunE: runBest,
}

var (
	searchDepth int
	showRanking bool
	outputJSON  bool
)

func init() {
	bestCmd.Flags().IntVar(&searchDepth, "depth", alphabeta.DefaultDepth, "plies searched below each candidate move")
	bestCmd.Flags().BoolVar(&showRanking, "ranking", false, "print every candidate move with its score")
	bestCmd.Flags().BoolVar(&outputJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(bestCmd)
}

func runBest(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	engine, err := alphabeta.New(
		alphabeta.WithDepth(searchDepth),
		alphabeta.WithLogger(log),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	choice, err := engine.BestMove(args[0])
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if outputJSON {
		printChoiceJSON(cmd, choice, elapsed)
	} else {
		printChoiceText(cmd, choice, elapsed)
	}
	return nil
}

func printChoiceText(cmd *cobra.Command, c *alphabeta.Choice, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Move:  %s\n", c.Move)
	fmt.Fprintf(out, "Score: %s\n", c.Score)
	fmt.Fprintf(out, "Depth: %d\n", c.Depth)
	fmt.Fprintf(out, "Nodes: %d\n", c.Nodes)
	fmt.Fprintf(out, "Time:  %s\n", elapsed)
	if showRanking {
		for i, r := range c.Ranking {
			fmt.Fprintf(out, "%3d. %-6s %s\n", i+1, r.Move, r.Score)
		}
	}
}

// Scores are written as strings since mates are infinite.
func printChoiceJSON(cmd *cobra.Command, c *alphabeta.Choice, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, `{"move":%q,"score":%q,"depth":%d,"nodes":%d,"elapsed_ms":%d`,
		c.Move.String(), c.Score.String(), c.Depth, c.Nodes, elapsed.Milliseconds())
	if showRanking {
		fmt.Fprint(out, `,"ranking":[`)
		for i, r := range c.Ranking {
			if i > 0 {
				fmt.Fprint(out, ",")
			}
			fmt.Fprintf(out, `{"move":%q,"score":%q}`, r.Move.String(), r.Score.String())
		}
		fmt.Fprint(out, "]")
	}
	fmt.Fprintln(out, "}")
}
