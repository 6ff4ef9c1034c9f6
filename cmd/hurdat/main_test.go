package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

const sampleFile = "../../internal/adapter/hurdat2/testdata/sample.txt"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(append([]string{"-f", sampleFile}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestRankSeasons_JSON(t *testing.T) {
	out, err := runCLI(t, "-o", "json", "rank-seasons", "--metric", "ACE", "-n", "5")
	require.NoError(t, err)

	var rep domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, domain.KindSeasons, rep.Kind)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, 1991, rep.Rows[0].Season.Year)
	assert.Equal(t, 11225.0, rep.Rows[0].Value)
}

func TestRankStorms_Text(t *testing.T) {
	out, err := runCLI(t, "rank-storms", "--metric", "maxwind", "-n", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "AL011991")
	assert.Contains(t, out, "ANA")
	assert.Less(t, bytes.Index([]byte(out), []byte("ANA")), bytes.Index([]byte(out), []byte("BERTHA")))
}

func TestRankStorms_BadBox(t *testing.T) {
	_, err := runCLI(t, "rank-storms", "--metric", "ACE", "--box", "40,20,-80")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "four values")
}

func TestRankSeasons_LandfallCaveat(t *testing.T) {
	t.Setenv("LANDFALL_CAVEAT", "")

	out, err := runCLI(t, "--landfall-caveat", "1985-1990", "rank-seasons", "--metric", "landfalls", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "note: landfall data incomplete for seasons 1985-1990")

	out, err = runCLI(t, "--landfall-caveat", "1985-1990", "rank-seasons", "--metric", "ACE", "-n", "5")
	require.NoError(t, err)
	assert.NotContains(t, out, "note:", "only landfall metrics carry the caveat")

	t.Setenv("LANDFALL_CAVEAT", "1991-1995")
	out, err = runCLI(t, "-o", "json", "rank-seasons", "--metric", "landfalls", "-n", "5")
	require.NoError(t, err)
	var rep domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.NotNil(t, rep.Caveat)
	assert.Equal(t, domain.YearSpan{From: 1991, To: 1995}, rep.Caveat.Span)

	_, err = runCLI(t, "--landfall-caveat", "1995-1991", "rank-seasons", "--metric", "landfalls", "-n", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--landfall-caveat")
}

func TestRankClimo(t *testing.T) {
	out, err := runCLI(t, "-o", "json", "rank-climo", "--metric", "tracks", "-n", "5", "--climatology", "1", "--increment", "1")
	require.NoError(t, err)

	var rep domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, 1990, rep.Rows[0].Era.Start)
	assert.Equal(t, 2.0, rep.Rows[0].Value)
}

func TestStanding(t *testing.T) {
	out, err := runCLI(t, "standing", "1990", "--metric", "tracks")
	require.NoError(t, err)
	assert.Contains(t, out, "1990: 2")
	assert.Contains(t, out, "rank 1 of 2")
}

func TestStorm(t *testing.T) {
	out, err := runCLI(t, "storm", "AL011991")
	require.NoError(t, err)
	assert.Contains(t, out, "ANA")
	assert.Contains(t, out, "Major Hurricane")
	assert.Contains(t, out, "11225")

	out, err = runCLI(t, "storm", "AL021990")
	require.NoError(t, err)
	assert.Contains(t, out, "LANDFALL")
	assert.Contains(t, out, "1990-08-02 02:15")

	_, err = runCLI(t, "storm", "AL991990")
	assert.ErrorContains(t, err, "not found")
}

func TestSeason(t *testing.T) {
	out, err := runCLI(t, "season", "1990")
	require.NoError(t, err)
	assert.Contains(t, out, "1990 season: 2 tracks")
	assert.Contains(t, out, "ARTHUR")
	assert.Contains(t, out, "BERTHA")

	_, err = runCLI(t, "season", "1850")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	out, err := runCLI(t, "-o", "json", "search", "ANNA", "--limit", "1")
	require.NoError(t, err)

	var hits []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "ANA", hits[0]["name"])
}

func TestSummary(t *testing.T) {
	out, err := runCLI(t, "summary", "--year1", "1990", "--year2", "1991")
	require.NoError(t, err)
	assert.Contains(t, out, "1990-1991, 2 seasons")

	_, err = runCLI(t, "summary", "--year1", "1991", "--year2", "1990")
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	out, err := runCLI(t, "metrics")
	require.NoError(t, err)
	for _, m := range domain.Metrics() {
		assert.Contains(t, out, m.Name)
	}
}

func TestRun_MissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-f", "does-not-exist.txt", "metrics"}, &stdout, &stderr)
	assert.Error(t, err)
}

func TestRun_ValidationError(t *testing.T) {
	_, err := runCLI(t, "rank-seasons", "--metric", "rainfall")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "metric", verr.Field)
}
