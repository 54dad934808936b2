package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemsFlag(t *testing.T) {
	fs := flag.NewFlagSet("invoice create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var lines lineItems
	fs.Var(&lines, "line", "")

	require.NoError(t, fs.Parse([]string{"-line", "Cours intensif A1=120.50", "-line", " Matériel = 29.5"}))
	require.Len(t, lines, 2)
	assert.Equal(t, "Cours intensif A1", lines[0].Description)
	assert.Equal(t, "120.50", lines[0].Amount.String())
	assert.Equal(t, "Matériel", lines[1].Description)
	assert.Equal(t, "29.50", lines[1].Amount.String())

	assert.Error(t, fs.Parse([]string{"-line", "no amount"}))
	assert.Error(t, fs.Parse([]string{"-line", "Cours=abc"}))
}
