package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"realestate_valuation/pkg/core/config"
	"realestate_valuation/pkg/core/financing"
	"realestate_valuation/pkg/core/kpi"
	"realestate_valuation/pkg/core/scenario"
	"realestate_valuation/pkg/core/utils"
)

// loadScenario decodes a YAML, HJSON or JSON scenario file
func loadScenario(path string) (scenario.Config, error) {
	var cfg scenario.Config
	if err := utils.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("loading scenario: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg, nil
}

func runSimulate(ctx context.Context, path string, profiles, asJSON bool) error {
	cfg, err := loadScenario(path)
	if err != nil {
		return err
	}
	sim := scenario.NewSimulator(settings)

	if !profiles {
		sc, err := sim.Simulate(cfg)
		if err != nil {
			config.LogError(config.GetLogger(), "cmd/scenarios", "runSimulate", path, nil, err)
			return err
		}
		if asJSON {
			return printJSON(sc)
		}
		printScenario(sc)
		return nil
	}

	results, err := sim.SimulateAll(ctx, scenario.PredefinedSet(cfg))
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(results)
	}
	for _, sc := range results {
		printScenario(sc)
		fmt.Println()
	}
	printComparison(scenario.Compare(results))
	return nil
}

func runCompare(ctx context.Context, paths []string, asJSON bool) error {
	cfgs := make([]scenario.Config, 0, len(paths))
	for _, p := range paths {
		cfg, err := loadScenario(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		cfgs = append(cfgs, cfg)
	}

	results, err := scenario.NewSimulator(settings).SimulateAll(ctx, cfgs)
	if err != nil {
		return err
	}

	cmp := scenario.Compare(results)
	if asJSON {
		return printJSON(cmp)
	}
	printComparison(cmp)
	return nil
}

func runBudget(path string) error {
	cfg, err := loadScenario(path)
	if err != nil {
		return err
	}
	budget, err := scenario.NewSimulator(settings).Budget(cfg)
	if err != nil {
		return err
	}
	printBudget(budget)
	return nil
}

func runAmortize(path string, limit int) error {
	cfg, err := loadScenario(path)
	if err != nil {
		return err
	}
	scheme, err := scenario.NewSimulator(settings).Financing(cfg)
	if err != nil {
		return err
	}
	table, err := financing.AmortizationTable(scheme)
	if err != nil {
		return err
	}
	printAmortization(scheme, table, limit)
	return nil
}

func runTaxes(value float64, region string) error {
	if value < 0 {
		return fmt.Errorf("property value must not be negative: %.2f", value)
	}
	if region == "" {
		region = settings.DefaultRegion
	}
	r := financing.Region(region)
	if _, ok := financing.LookupTaxModel(r); !ok {
		config.ModuleLogger("cmd/scenarios").WithField("region", region).Warn("unknown region, using default tax model")
	}
	printTaxes(financing.CalculateTaxesAndFees(value, r))
	return nil
}

func runReport(path string, html bool) error {
	cfg, err := loadScenario(path)
	if err != nil {
		return err
	}
	sc, err := scenario.NewSimulator(settings).Simulate(cfg)
	if err != nil {
		return err
	}

	f := kpi.NewFormatter("en")
	var b strings.Builder
	b.WriteString(f.Generate(sc.KPIs).Markdown(sc.Name))
	b.WriteString("\n### Five-year projection\n\n")
	b.WriteString(scenario.FiveYear(sc).Markdown(f.Currency))

	md := utils.CleanMarkdown(b.String())
	if !html {
		fmt.Println(md)
		return nil
	}

	out, err := utils.RenderMarkdownHTML(md)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
