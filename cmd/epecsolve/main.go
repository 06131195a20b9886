// Command epecsolve loads an instance file, solves it for a Nash equilibrium
// among the national regulators, and reports the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ssriram1992/epecsolve/algorithms"
	"github.com/ssriram1992/epecsolve/config"
	"github.com/ssriram1992/epecsolve/instance"
	"github.com/ssriram1992/epecsolve/persist"
	"github.com/ssriram1992/epecsolve/solver/milp"
)

const (
	progName = "epecsolve"
	version  = progName + " 0.1.0"
)

// Solution write levels, per the -s flag.
const (
	writeStructuredOnly = 0
	writeHumanOnly      = 1
	writeBoth           = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	outPrefix := fs.String("r", "", "solution output path prefix")
	writeLevel := fs.Int("s", writeBoth, "solution write level: 0=structured, 1=human-readable, 2=both")
	showVersion := fs.Bool("v", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [-r prefix] [-s 0|1|2] [-v] instance-file\n", progName)
		fs.PrintDefaults()
	}

	switch err := fs.Parse(args); {
	case err == flag.ErrHelp:
		return 0
	case err != nil:
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}
	if *writeLevel != writeStructuredOnly && *writeLevel != writeHumanOnly && *writeLevel != writeBoth {
		fmt.Fprintf(stderr, "%s: -s must be 0, 1, or 2\n", progName)
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if err := solve(fs.Arg(0), *outPrefix, *writeLevel, stdout); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		return 1
	}

	return 0
}

func solve(instPath, outPrefix string, writeLevel int, stdout io.Writer) error {
	f, err := os.Open(instPath)
	if err != nil {
		return fmt.Errorf("open instance: %w", err)
	}
	defer f.Close()

	inst, err := instance.Load(f)
	if err != nil {
		return fmt.Errorf("load instance: %w", err)
	}

	cfg := config.Default()
	e, err := inst.Build(cfg, milp.NewBackend())
	if err != nil {
		return fmt.Errorf("build instance: %w", err)
	}

	ctx := context.Background()
	if err := e.Finalize(ctx); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}

	status, x, err := e.FindNashEq(ctx)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	if outPrefix == "" {
		return printReport(stdout, status, x)
	}

	if writeLevel == writeStructuredOnly || writeLevel == writeBoth {
		if err := writeStructuredSolution(outPrefix+".sol", status, x); err != nil {
			return fmt.Errorf("write structured solution: %w", err)
		}
	}
	if writeLevel == writeHumanOnly || writeLevel == writeBoth {
		if err := writeHumanSolution(outPrefix+".txt", status, x); err != nil {
			return fmt.Errorf("write human-readable solution: %w", err)
		}
	}

	return nil
}

// writeStructuredSolution persists the composite solution using the same
// section-framing convention as lcp.LCP's Save/Load:
// a magic line, an int section for the status code, a float section for x.
func writeStructuredSolution(path string, status algorithms.Status, x []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := persist.WriteMagic(f, "Solution"); err != nil {
		return err
	}
	if err := persist.WriteIntSection(f, "status", []int{int(status)}); err != nil {
		return err
	}

	return persist.WriteSection(f, "x", x)
}

func writeHumanSolution(path string, status algorithms.Status, x []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return printReport(f, status, x)
}

func printReport(w io.Writer, status algorithms.Status, x []float64) error {
	if _, err := fmt.Fprintf(w, "status: %s\n", statusLabel(status)); err != nil {
		return err
	}
	if x == nil {
		_, err := fmt.Fprintln(w, "no equilibrium profile to report")
		return err
	}

	if _, err := fmt.Fprintf(w, "composite solution (%d variables):\n", len(x)); err != nil {
		return err
	}
	for i, v := range x {
		if _, err := fmt.Fprintf(w, "  x[%d] = %.6f\n", i, v); err != nil {
			return err
		}
	}

	return nil
}

// statusLabel renders an algorithms.Status as text. algorithms.Status has no
// String method of its own, so this switch is the CLI's own.
func statusLabel(status algorithms.Status) string {
	switch status {
	case algorithms.NashEqFound:
		return "equilibrium found"
	case algorithms.NashEqNotFound:
		return "equilibrium not found"
	case algorithms.InfeasibleRelaxed:
		return "relaxed problem infeasible"
	case algorithms.TimeLimit:
		return "time limit reached"
	case algorithms.NumericalIssue:
		return "numerical issue"
	case algorithms.SolverError:
		return "solver error"
	default:
		return "unknown"
	}
}
