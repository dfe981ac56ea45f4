package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	out := FormatError(ErrorOptions{
		Context:      "table not found",
		Problem:      "Cannot find table 'ordrs'.",
		Consequence:  "Nothing was derived.",
		Suggestions:  []string{"orders", "items"},
		HelpCommands: []string{"See all tables: gridmeta derive"},
		NoColor:      true,
	})

	assert.Contains(t, out, "❌ TABLE NOT FOUND: Cannot find table 'ordrs'.")
	assert.Contains(t, out, "   Nothing was derived.")
	assert.Contains(t, out, "   Did you mean: orders, items?")
	assert.Contains(t, out, "   → See all tables: gridmeta derive")
}

func TestFormatError_Levels(t *testing.T) {
	assert.Contains(t, FormatError(ErrorOptions{Level: ErrorLevelWarning, Problem: "p", NoColor: true}), "⚠️ p")
	assert.Contains(t, FormatError(ErrorOptions{Level: ErrorLevelInfo, Problem: "p", NoColor: true}), "ℹ️ p")
	assert.Equal(t, "⚠️ careful\n", Warning("careful", true))
}

func TestDomainErrors(t *testing.T) {
	assert.Contains(t, TableNotFoundError("ordrs", []string{"orders"}, true), "Did you mean: orders?")
	assert.Contains(t, EntityNotFoundError("Sales.Ordr", nil, true), "Cannot find entity type 'Sales.Ordr'.")
	assert.Contains(t, DerivationError("orders", errors.New("unhandled column kind"), true), "unhandled column kind")
	assert.Contains(t, ConfigError("bad port", true), "CONFIGURATION ERROR: bad port")
}

func TestWriteSuccess(t *testing.T) {
	var buf bytes.Buffer
	WriteSuccess(&buf, "Created gridmeta.yml", true)
	assert.Equal(t, "✓ Created gridmeta.yml\n", buf.String())

	buf.Reset()
	WriteError(&buf, ErrorOptions{Problem: "boom", NoColor: true})
	assert.Equal(t, "❌ boom\n", buf.String())
}
