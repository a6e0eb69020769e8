package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"realestate_valuation/pkg/core/config"
	"realestate_valuation/pkg/core/scenario"
	"realestate_valuation/pkg/core/utils"
)

// CheckResult is the output of -mode check
type CheckResult struct {
	Valid  bool              `json:"valid"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func main() {
	mode := flag.String("mode", "calculate", "Mode: check or calculate")
	dataStr := flag.String("data", "", "Scenario JSON payload (minor syntax errors are repaired)")
	settingsPath := flag.String("settings", "config/settings.yaml", "Settings file")
	flag.Parse()

	if *dataStr == "" {
		fmt.Println("Error: No data provided")
		os.Exit(1)
	}

	settings, err := config.Load(*settingsPath)
	if err != nil {
		fmt.Printf("Error loading settings: %v\n", err)
		os.Exit(1)
	}
	_ = config.SetLevel(settings.LogLevel)

	var cfg scenario.Config
	if err := utils.SmartParse(*dataStr, &cfg); err != nil {
		fmt.Printf("Error unmarshaling data: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case "check":
		os.Exit(runCheck(cfg))
	case "calculate":
		os.Exit(runCalculate(cfg, settings))
	default:
		fmt.Printf("Unknown mode: %s\n", *mode)
		os.Exit(2)
	}
}

// checkConfig validates without simulating
func checkConfig(cfg scenario.Config) CheckResult {
	err := cfg.Validate()
	if err == nil {
		err = cfg.Sales.Validate()
	}
	if err != nil {
		return CheckResult{Error: err.Error(), Fields: utils.ValidationErrors(err)}
	}
	return CheckResult{Valid: true}
}

func runCheck(cfg scenario.Config) int {
	res := checkConfig(cfg)
	printJSON(res)
	if !res.Valid {
		return 1
	}
	return 0
}

func runCalculate(cfg scenario.Config, settings config.Settings) int {
	sc, err := scenario.NewSimulator(settings).Simulate(cfg)
	if err != nil {
		config.LogError(config.GetLogger(), "calc-engine", "runCalculate", "simulate", cfg.Name, err)
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	printJSON(sc)
	return 0
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling result: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
