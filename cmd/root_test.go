package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metusa-property/deal-analyzer/internal/model"
)

// execute runs the root command with args, capturing stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flag variables persist across Execute calls in one process.
	analyzeInputPath = ""
	analyzePostcode = ""
	analyzeAddress = ""
	sdltSecond = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSDLTCommand(t *testing.T) {
	out, err := execute(t, "sdlt", "185000")
	require.NoError(t, err)
	assert.Contains(t, out, "£10,450 on £185,000")
	assert.Contains(t, out, "surcharge")
}

func TestSDLTCommandWithoutSurcharge(t *testing.T) {
	out, err := execute(t, "sdlt", "185000", "--second=false")
	require.NoError(t, err)
	assert.Contains(t, out, "£1,200 on £185,000")
}

func TestSDLTCommandBadPrice(t *testing.T) {
	_, err := execute(t, "sdlt", "cheap")
	assert.Error(t, err)
}

func TestAnalyzeCommandFlags(t *testing.T) {
	out, err := execute(t, "analyze",
		"--type", "BTL",
		"--price", "185000",
		"--rent", "950",
		"--deposit", "25",
		"--rate", "4.0",
		"--postcode", "sk4 1aa",
	)
	require.NoError(t, err)

	var res model.DealResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, model.VerdictProceed, res.Verdict)
	assert.Equal(t, "SK4 1AA", res.Postcode)
	assert.InDelta(t, 10450, res.Costs.StampDuty, 0.01)
}

func TestAnalyzeCommandInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"deal_type": "HMO",
		"purchase_price": 240000,
		"deposit_percent": 25,
		"interest_rate_percent": 5.5,
		"is_second_property": true,
		"room_count": 5,
		"room_rate": 450
	}`), 0o644))

	out, err := execute(t, "analyze", "--input", path)
	require.NoError(t, err)

	var res model.DealResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, model.DealTypeHMO, res.DealType)
	assert.InDelta(t, 2250, res.Income.MonthlyRent, 0.01)
}

func TestAnalyzeCommandRejectsBadPostcode(t *testing.T) {
	_, err := execute(t, "analyze",
		"--price", "185000", "--rent", "950", "--postcode", "NOPE")
	assert.Error(t, err)
}
