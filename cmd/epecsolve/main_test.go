package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssriram1992/epecsolve/epec"
	"github.com/ssriram1992/epecsolve/instance"
)

// writeTestInstance writes a single-country instance (no rival countries,
// so FindNashEq has a trivial Nash equilibrium to find) to a new file under
// dir and returns its path.
func writeTestInstance(t *testing.T, dir string) string {
	t.Helper()

	inst := &instance.Instance{
		Countries: []instance.CountrySpec{
			{
				Name: "Freedonia",
				Followers: []instance.FollowerSpec{
					{Name: "gas", LinCost: 10, QuadCost: 0.5, Capacity: 100, TaxCap: epec.NoLimit},
				},
				Demand: instance.DemandSpec{Alpha: 300, Beta: 0.05},
				Leader: instance.LeaderSpec{ImportLimit: 0, ExportLimit: 0, PriceCap: epec.NoLimit, Paradigm: "standard"},
			},
		},
	}

	path := filepath.Join(dir, "instance.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, instance.Save(f, inst))

	return path
}

func TestRun_VersionFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-v"}, &out, &errOut)
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), progName)
}

func TestRun_HelpFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-h"}, &out, &errOut)
	require.Equal(t, 0, code)
}

func TestRun_RejectsMissingInstancePath(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(nil, &out, &errOut)
	require.NotEqual(t, 0, code)
}

func TestRun_RejectsBadWriteLevel(t *testing.T) {
	dir := t.TempDir()
	path := writeTestInstance(t, dir)

	var out, errOut bytes.Buffer
	code := run([]string{"-s", "7", path}, &out, &errOut)
	require.NotEqual(t, 0, code)
}

func TestRun_RejectsMissingInstanceFile(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "nope.txt")}, &out, &errOut)
	require.NotEqual(t, 0, code)
}

func TestRun_SolvesAndReportsToStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeTestInstance(t, dir)

	var out, errOut bytes.Buffer
	code := run([]string{path}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	require.True(t, strings.HasPrefix(out.String(), "status: "))
}

func TestRun_WritesStructuredAndHumanFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeTestInstance(t, dir)
	prefix := filepath.Join(dir, "out")

	var out, errOut bytes.Buffer
	code := run([]string{"-r", prefix, "-s", "2", path}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	structured, err := os.ReadFile(prefix + ".sol")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(structured), "Solution\n"))

	human, err := os.ReadFile(prefix + ".txt")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(human), "status: "))
}

func TestRun_WriteLevelZeroOmitsHumanFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestInstance(t, dir)
	prefix := filepath.Join(dir, "out")

	var out, errOut bytes.Buffer
	code := run([]string{"-r", prefix, "-s", "0", path}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	_, err := os.Stat(prefix + ".sol")
	require.NoError(t, err)
	_, err = os.Stat(prefix + ".txt")
	require.True(t, os.IsNotExist(err))
}
