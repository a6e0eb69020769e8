package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"realestate_valuation/pkg/core/config"
)

var (
	settingsPath string
	logLevel     string
	settings     config.Settings
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Real-estate budget, financing and scenario simulator",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadSettings()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "config/settings.yaml", "settings file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(budgetCmd())
	rootCmd.AddCommand(amortizeCmd())
	rootCmd.AddCommand(taxesCmd())
	rootCmd.AddCommand(reportCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func loadSettings() error {
	s, err := config.Load(settingsPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		s.LogLevel = logLevel
	}
	if err := config.SetLevel(s.LogLevel); err != nil {
		return err
	}
	settings = s
	return nil
}

func simulateCmd() *cobra.Command {
	var asJSON, profiles bool

	cmd := &cobra.Command{
		Use:   "simulate [scenario-file]",
		Short: "Simulate one scenario and print its KPIs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), args[0], profiles, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full scenario as JSON")
	cmd.Flags().BoolVar(&profiles, "profiles", false, "run the optimistic, realistic and pessimistic variants")
	return cmd
}

func compareCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compare [scenario-file...]",
		Short: "Simulate scenarios in parallel and rank them by KPI",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the comparison as JSON")
	return cmd
}

func budgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget [scenario-file]",
		Short: "Compute the direct and indirect cost budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBudget(args[0])
		},
	}
}

func amortizeCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "amortize [scenario-file]",
		Short: "Print the amortization table of the scenario's financing",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runAmortize(args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 12, "number of periods to print (0 for all)")
	return cmd
}

func taxesCmd() *cobra.Command {
	var value float64
	var region string

	cmd := &cobra.Command{
		Use:   "taxes",
		Short: "Compute transaction taxes and fees for a property value",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTaxes(value, region)
		},
	}

	cmd.Flags().Float64Var(&value, "value", 0, "property value")
	cmd.Flags().StringVar(&region, "region", "", "tax region (defaults to the configured region)")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func reportCmd() *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "report [scenario-file]",
		Short: "Render a KPI and five-year report in markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runReport(args[0], html)
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "render HTML instead of markdown")
	return cmd
}
