package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/dashboard"
	"github.com/theirongolddev/salesboard/internal/pipeline"
	"github.com/theirongolddev/salesboard/internal/source"
	"github.com/theirongolddev/salesboard/internal/store"

	"github.com/spf13/cobra"
)

var errGoalsNeedCache = errors.New("goals are stored in the cache database; drop --no-cache")

var flagGoalsClearAll bool

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List and edit persisted seller goals",
	RunE:  runGoalsList,
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted goals",
	Args:  cobra.NoArgs,
	RunE:  runGoalsList,
}

var goalsSetCmd = &cobra.Command{
	Use:   "set <seller> <units>",
	Short: "Set the unit goal for a seller",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalsSet,
}

var goalsClearCmd = &cobra.Command{
	Use:   "clear [seller]",
	Short: "Clear the goal for a seller, or every goal with --all",
	Args: func(cmd *cobra.Command, args []string) error {
		if flagGoalsClearAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runGoalsClear,
}

func init() {
	goalsClearCmd.Flags().BoolVar(&flagGoalsClearAll, "all", false, "Clear every goal")

	goalsCmd.AddCommand(goalsListCmd, goalsSetCmd, goalsClearCmd)
	rootCmd.AddCommand(goalsCmd)
}

// runGoalsList reads goals straight from the cache; no source is needed.
func runGoalsList(_ *cobra.Command, _ []string) error {
	if flagNoCache {
		return errGoalsNeedCache
	}
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	goals, err := cache.LoadGoals()
	if err != nil {
		return fmt.Errorf("loading goals: %w", err)
	}

	names := make([]string, 0, len(goals))
	for name, g := range goals {
		if g > 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		fmt.Println("\n  No goals set. Use `salesboard goals set <seller> <units>`.")
		return nil
	}
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, cli.FormatGoal(goals[name])}
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Goals",
		Headers: []string{"Seller", "Units"},
		Rows:    rows,
	}))
	return nil
}

func runGoalsSet(_ *cobra.Command, args []string) error {
	goal, ok := source.ParseNumber(args[1])
	if !ok || strings.TrimSpace(args[1]) == "" {
		return &dashboard.ValidationError{Field: "goal", Value: args[1], Reason: dashboard.ErrInvalidGoal}
	}
	return editGoal(args[0], goal)
}

func runGoalsClear(_ *cobra.Command, args []string) error {
	if flagGoalsClearAll {
		return clearAllGoals()
	}
	return editGoal(args[0], 0)
}

// editGoal loads the source so the seller is checked against the registry the
// same way the dashboard does.
func editGoal(seller string, goal float64) error {
	if flagNoCache {
		return errGoalsNeedCache
	}
	s, err := loadSession()
	if err != nil {
		return err
	}
	defer s.Close()
	if s.cache == nil {
		return errGoalsNeedCache
	}

	if err := s.state.SetGoal(seller, goal); err != nil {
		if errors.Is(err, dashboard.ErrUnknownSeller) {
			return fmt.Errorf("%w (known sellers: %s)", err, strings.Join(s.state.Sellers(), ", "))
		}
		return err
	}

	if goal == 0 {
		fmt.Printf("  Cleared goal for %s\n", seller)
	} else {
		fmt.Printf("  Goal for %s set to %s units\n", seller, cli.FormatGoal(goal))
	}
	return nil
}

func clearAllGoals() error {
	if flagNoCache {
		return errGoalsNeedCache
	}
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	goals, err := cache.LoadGoals()
	if err != nil {
		return fmt.Errorf("loading goals: %w", err)
	}
	// Keep the seller rows so manually added sellers survive.
	for name := range goals {
		goals[name] = 0
	}
	if err := cache.ReplaceGoals(goals); err != nil {
		return fmt.Errorf("clearing goals: %w", err)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Cleared %d goal(s)\n", len(goals))
	}
	return nil
}
