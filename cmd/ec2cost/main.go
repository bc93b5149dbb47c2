package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/costwatch/ec2cost/internal/models"
	"github.com/costwatch/ec2cost/internal/version"
	"github.com/costwatch/ec2cost/pkg/aws"
	"github.com/costwatch/ec2cost/pkg/costing"
	"github.com/costwatch/ec2cost/pkg/export"
	"github.com/costwatch/ec2cost/pkg/formatter"
	"github.com/costwatch/ec2cost/pkg/pricing"
	"github.com/costwatch/ec2cost/pkg/utils"
)

var (
	regions     []string
	profile     string
	detailed    bool
	showSavings bool
	noColor     bool
	exportKinds []string
	outputFile  string
	showVersion bool
)

var supportedExports = map[string]bool{
	"instances": true,
	"costs":     true,
	"savings":   true,
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ec2cost",
		Short: "CLI tool to report recurring EC2 costs and savings",
		Long: `ec2cost computes the recurring cost of the EC2 fleet, broken down
by instance type and pricing model (on-demand, reserved, spot), and
recommends pricing model switches that would lower the bill.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				info := version.Get()
				fmt.Printf("ec2cost version %s (commit: %s, built: %s, %s)\n",
					info.Version, info.GitCommit, info.BuildDate, info.GoVersion)
				return nil
			}

			color.NoColor = color.NoColor || noColor

			if len(regions) == 0 {
				regions = []string{utils.GetDefaultRegion()}
			}

			var validRegions []string
			for _, region := range regions {
				if utils.IsValidRegion(region) {
					validRegions = append(validRegions, region)
				} else {
					fmt.Printf("Warning: Skipping invalid region '%s'\n", region)
				}
			}
			if len(validRegions) == 0 {
				return fmt.Errorf("no valid regions specified")
			}

			for _, kind := range exportKinds {
				if !supportedExports[kind] {
					return fmt.Errorf("unknown export kind '%s' (expected instances, costs or savings)", kind)
				}
			}
			if outputFile != "" && len(exportKinds) != 1 {
				return fmt.Errorf("--output requires exactly one --export kind")
			}

			pricing.SetProfile(profile)

			regions = validRegions
			return runScan(cmd.Context(), validRegions)
		},
	}

	rootCmd.Flags().StringSliceVarP(&regions, "regions", "r", nil,
		fmt.Sprintf("AWS regions to analyze (comma separated, default: %s)", utils.GetDefaultRegion()))
	rootCmd.Flags().StringVarP(&profile, "profile", "p", "", "AWS shared config profile")
	rootCmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Show per-instance cost details")
	rootCmd.Flags().BoolVar(&showSavings, "savings", false, "Show savings opportunity analysis")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().StringSliceVarP(&exportKinds, "export", "e", nil,
		"Write CSV exports instead of tables only (instances, costs, savings)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for a single CSV export")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	return rootCmd
}

// regionInventory is one region's fetched instance snapshot.
type regionInventory struct {
	region    string
	instances []models.Instance
	err       error
}

// runScan fetches inventories for all regions in parallel, then runs
// the cost pipeline region by region.
func runScan(ctx context.Context, regions []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Println("Starting EC2 cost scan ...")
	scanStartTime := time.Now()

	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Fetching EC2 inventory in %s ...", strings.Join(regions, ", "))
	s.Start()

	inventories := make([]regionInventory, len(regions))

	var wg sync.WaitGroup
	for i, region := range regions {
		wg.Add(1)
		go func(idx int, r string) {
			defer wg.Done()

			inventories[idx].region = r
			client, err := aws.NewEC2Client(ctx, r, profile)
			if err != nil {
				inventories[idx].err = err
				return
			}
			inventories[idx].instances, inventories[idx].err = client.GetInstances(ctx)
		}(i, region)
	}
	wg.Wait()

	scanDuration := time.Since(scanStartTime)

	total := 0
	for _, inv := range inventories {
		total += len(inv.instances)
	}
	s.FinalMSG = fmt.Sprintf("✓ [%d instances found] EC2 inventory fetched - Completed in %.2f seconds\n",
		total, scanDuration.Seconds())
	s.Stop()

	var firstErr error
	for _, inv := range inventories {
		if inv.err != nil {
			fmt.Printf("Error in region %s: %v\n", inv.region, inv.err)
			if firstErr == nil {
				firstErr = inv.err
			}
			continue
		}
		if err := reportRegion(ctx, inv, scanStartTime, scanDuration); err != nil {
			fmt.Printf("Error reporting region %s: %v\n", inv.region, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	formatter.PrintPricingAPIStats()

	return firstErr
}

// reportRegion runs aggregation, savings analysis, tables and exports
// for one region's inventory.
func reportRegion(ctx context.Context, inv regionInventory, scanStartTime time.Time, scanDuration time.Duration) error {
	fmt.Printf("\n=== Region: %s ===\n", inv.region)

	resolver := pricing.NewResolver(inv.region)

	ps := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	ps.Suffix = fmt.Sprintf(" Resolving on-demand prices for %s ...", inv.region)
	ps.Start()

	summary, diags, err := costing.Aggregate(ctx, inv.instances, resolver)
	if err != nil {
		ps.Stop()
		return err
	}

	var rows []models.InstanceCost
	if detailed || wantsExport("instances") {
		var rowDiags []costing.Diagnostic
		rows, rowDiags, err = costing.InstanceCosts(ctx, inv.instances, resolver)
		if err != nil {
			ps.Stop()
			return err
		}
		diags = append(diags, rowDiags...)
	}
	ps.Stop()

	formatter.PrintDiagnostics(diags)

	if detailed {
		formatter.PrintInstancesTable(rows, scanStartTime, scanDuration)
	}
	formatter.PrintCostBreakdownTable(summary)
	formatter.PrintFleetSummary(summary)

	opportunities := costing.FindSavingsOpportunities(summary)
	if showSavings {
		formatter.PrintSavingsTable(opportunities)
	}

	return writeExports(inv.region, rows, summary, opportunities)
}

func wantsExport(kind string) bool {
	for _, k := range exportKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// writeExports writes the requested CSV files. Default filenames carry
// the region so per-region exports do not overwrite each other.
func writeExports(region string, rows []models.InstanceCost, summary *models.CostSummary, opportunities []models.SavingsOpportunity) error {
	path := func() string {
		if outputFile != "" && len(regions) == 1 {
			return outputFile
		}
		return ""
	}

	for _, kind := range exportKinds {
		var written string
		var err error
		switch kind {
		case "instances":
			written, err = export.WriteInstancesCSV(path(), region, rows)
		case "costs":
			written, err = export.WriteCostsCSV(path(), region, summary)
		case "savings":
			written, err = export.WriteSavingsCSV(path(), region, opportunities)
		}
		if err != nil {
			return fmt.Errorf("exporting %s for %s: %w", kind, region, err)
		}
		fmt.Printf("Exported %s data to %s\n", kind, written)
	}

	return nil
}
