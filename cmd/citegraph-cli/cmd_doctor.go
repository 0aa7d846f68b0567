package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/citegraph/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, server, lookup backend and auth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor() error {
	fmt.Println("\ncitegraph doctor")
	fmt.Println("================")

	results := doctorChecks(context.Background())
	printChecks(results)

	for _, r := range results {
		if !r.Passed {
			fmt.Println("❌ Some checks failed.")
			return fmt.Errorf("doctor found issues")
		}
	}
	fmt.Println("✅ All checks passed!")
	return nil
}

func doctorChecks(ctx context.Context) []checkResult {
	var results []checkResult

	if cfgPath, _, err := loadConfigFile(); err != nil {
		// Flags or env can stand in for the file.
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("not found (%s), using flags and env", cfgPath),
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	results = append(results, checkResult{Name: "Server URL", Passed: true, Detail: flagURL})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	health, err := apiClient.Health(ctx)
	if err != nil {
		return append(results, checkResult{
			Name: "Server reachable", Passed: false,
			Detail: flagURL,
			Hint:   fmt.Sprintf("Is the citegraph server running?\n   Error: %v", err),
		})
	}
	results = append(results, checkResult{
		Name: "Server reachable", Passed: true,
		Detail: fmt.Sprintf("%s (database %s)", health.Version, health.Database),
	})

	results = append(results, checkResult{
		Name:   "Lookup backend",
		Passed: health.Lookup != "degraded",
		Detail: health.Lookup,
		Hint:   "The citation endpoint is failing; the circuit breaker is open.",
	})

	if _, err := apiClient.References.List(ctx, 1); err != nil {
		hint := fmt.Sprintf("Error: %v", err)
		if client.IsUnauthorized(err) {
			hint = "Check your API key (--api-key, CITEGRAPH_API_KEY or citegraph init)."
		}
		results = append(results, checkResult{Name: "Authentication", Passed: false, Hint: hint})
	} else {
		results = append(results, checkResult{Name: "Authentication", Passed: true, Detail: "valid"})
	}

	return results
}

func printChecks(results []checkResult) {
	fmt.Println()
	for _, r := range results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
		}
		if r.Detail != "" {
			fmt.Printf("%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("%s %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("   Hint: %s\n", r.Hint)
		}
	}
	fmt.Println()
}
