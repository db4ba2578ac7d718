// Command mollusk replays recorded fixtures against a program, either
// checking a single program's effects against the fixture's recorded
// expectations (execute-fixture) or diffing two programs' behavior
// against each other (run-test).
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mollusk-svm/mollusk-go/compare"
	"github.com/mollusk-svm/mollusk-go/engine"
	"github.com/mollusk-svm/mollusk-go/engine/builtin"
	"github.com/mollusk-svm/mollusk-go/internal/molog"
	"github.com/mollusk-svm/mollusk-go/pubkey"
	"github.com/mollusk-svm/mollusk-go/svm"
)

func main() {
	app := &cli.App{
		Name:  "mollusk",
		Usage: "replay recorded instruction fixtures against a program",
		Commands: []*cli.Command{
			executeFixtureCommand(),
			runTestCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

var commonFlags = []cli.Flag{
	&cli.StringFlag{Name: "proto", Value: "mollusk", Usage: "fixture wire format: mollusk or firedancer"},
	&cli.StringFlag{Name: "config", Usage: "path to a YAML run config"},
	&cli.BoolFlag{Name: "verbose"},
	&cli.BoolFlag{Name: "ignore-compute-units"},
	&cli.BoolFlag{Name: "cus-report-table", Usage: "print a compute-units-per-fixture table"},
}

// execute-fixture <elf> <fixture-or-dir> <program_id>
func executeFixtureCommand() *cli.Command {
	return &cli.Command{
		Name:      "execute-fixture",
		Usage:     "replay fixtures against one program, checking recorded effects",
		ArgsUsage: "<elf> <fixture-or-dir> <program_id>",
		Flags:     commonFlags,
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 3 {
				return cli.Exit("execute-fixture requires <elf> <fixture-or-dir> <program_id>", 2)
			}
			elfPath, fixturePath, programIDStr := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

			cfg, err := loadRunConfig(c.String("config"))
			if err != nil {
				return err
			}
			applyFlags(&cfg, c)
			setupLogging(cfg.Verbose)

			programID, err := pubkey.FromBase58(programIDStr)
			if err != nil {
				return err
			}
			elf, err := readELF(elfPath)
			if err != nil {
				return err
			}
			fixtures, err := loadFixtures(fixturePath, c.String("proto"))
			if err != nil {
				return err
			}

			m, err := newHarness(programID, elf)
			if err != nil {
				return err
			}

			checks := compareSetFor(cfg)
			var cusRows [][]string
			failures := 0
			for _, fx := range fixtures {
				applyFixtureConfig(m, fx)
				actual := m.ProcessInstruction(fx.Ix, fx.Accounts)
				ok := compare.CompareWithConfig(fx.Expected, actual, checks, cfg.resultConfig())
				printOutcome(fx.Name, ok)
				if !ok {
					failures++
				}
				cusRows = append(cusRows, []string{fx.Name, fmt.Sprintf("%d", actual.ComputeUnitsConsumed)})
			}
			if c.Bool("cus-report-table") {
				renderCUsReport(cusRows)
			}

			fmt.Printf("[DONE][TEST RESULT]: %d failures\n", failures)
			if failures > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// run-test <elf_ground> <elf_target> <fixture-or-dir> <program_id>
func runTestCommand() *cli.Command {
	return &cli.Command{
		Name:      "run-test",
		Usage:     "replay fixtures against two programs and diff their behavior",
		ArgsUsage: "<elf_ground> <elf_target> <fixture-or-dir> <program_id>",
		Flags:     commonFlags,
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 4 {
				return cli.Exit("run-test requires <elf_ground> <elf_target> <fixture-or-dir> <program_id>", 2)
			}
			groundPath, targetPath := c.Args().Get(0), c.Args().Get(1)
			fixturePath, programIDStr := c.Args().Get(2), c.Args().Get(3)

			cfg, err := loadRunConfig(c.String("config"))
			if err != nil {
				return err
			}
			applyFlags(&cfg, c)
			setupLogging(cfg.Verbose)

			programID, err := pubkey.FromBase58(programIDStr)
			if err != nil {
				return err
			}
			groundELF, err := readELF(groundPath)
			if err != nil {
				return err
			}
			targetELF, err := readELF(targetPath)
			if err != nil {
				return err
			}
			fixtures, err := loadFixtures(fixturePath, c.String("proto"))
			if err != nil {
				return err
			}

			ground, err := newHarness(programID, groundELF)
			if err != nil {
				return err
			}
			target, err := newHarness(programID, targetELF)
			if err != nil {
				return err
			}

			checks := compareSetFor(cfg)
			var cusRows [][]string
			failures := 0
			for _, fx := range fixtures {
				applyFixtureConfig(ground, fx)
				applyFixtureConfig(target, fx)
				groundRes := ground.ProcessInstruction(fx.Ix, fx.Accounts)
				targetRes := target.ProcessInstruction(fx.Ix, fx.Accounts)
				ok := compare.CompareWithConfig(groundRes, targetRes, checks, cfg.resultConfig())
				printOutcome(fx.Name, ok)
				if !ok {
					failures++
				}
				cusRows = append(cusRows, []string{fx.Name, fmt.Sprintf("%d", groundRes.ComputeUnitsConsumed), fmt.Sprintf("%d", targetRes.ComputeUnitsConsumed)})
			}
			if c.Bool("cus-report-table") {
				renderCUsReport(cusRows)
			}

			fmt.Printf("[DONE][TEST RESULT]: %d failures\n", failures)
			if failures > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func applyFlags(cfg *runConfig, c *cli.Context) {
	if c.Bool("verbose") {
		cfg.Verbose = true
	}
	if c.Bool("ignore-compute-units") {
		cfg.IgnoreComputeUnits = true
	}
}

func compareSetFor(cfg runConfig) []compare.Compare {
	if cfg.IgnoreComputeUnits {
		return compare.EverythingButCUs()
	}
	return compare.Everything()
}

// newHarness builds a Mollusk harness over the reference in-process
// engine and registers programID's ELF under the default loader class.
// The real SBF virtual machine is out of scope for this harness (see
// package engine's doc comment); programs that aren't the built-in
// system program will dispatch to UnsupportedProgramId, same as any
// other caller of the programmatic API pointed at engine/builtin.
func newHarness(programID pubkey.Pubkey, elf []byte) (*svm.Mollusk, error) {
	m := svm.New(builtin.New())
	if err := m.ProgramCache.AddProgram(programID, svm.DefaultLoaderKey, elf, engine.InvocationConfig{}); err != nil {
		return nil, err
	}
	return m, nil
}

// applyFixtureConfig adopts a fixture's own recorded compute budget,
// feature set, and sysvars onto the harness before replaying it, so a
// fixture's context fully determines the conditions it runs under.
func applyFixtureConfig(m *svm.Mollusk, fx loadedFixture) {
	m.ComputeBudget = fx.ComputeBudget
	m.FeatureSet = fx.FeatureSet
	if fx.Sysvars != nil {
		m.Sysvars = fx.Sysvars
	} else {
		m.Sysvars.WarpToSlot(fx.Slot)
	}
}

func printOutcome(name string, ok bool) {
	if ok {
		fmt.Printf("%s %s\n", color.GreenString("PASS"), name)
	} else {
		fmt.Printf("%s %s\n", color.RedString("FAIL"), name)
	}
}

func renderCUsReport(rows [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	if len(rows) > 0 && len(rows[0]) == 3 {
		table.SetHeader([]string{"fixture", "ground cus", "target cus"})
	} else {
		table.SetHeader([]string{"fixture", "cus consumed"})
	}
	table.AppendBulk(rows)
	table.Render()
}

func setupLogging(verbose bool) {
	l := logrus.New()
	if verbose {
		l.SetLevel(logrus.DebugLevel)
		l.SetOutput(os.Stderr)
	}
	molog.SetDefault(l)
}
