package output

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogging(t *testing.T) {
	SetupLogging(LogConfig{Verbose: true})
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	SetupLogging(LogConfig{})
	assert.Equal(t, log.InfoLevel, Logger.GetLevel())
}

func TestBoolPtr(t *testing.T) {
	p := BoolPtr(true)
	assert.True(t, *p)
}

func TestFormatEntryLine(t *testing.T) {
	line := FormatEntryLine("myapp/ebin/Elixir.MyApp.beam", 1234, "AtU8 Code")

	assert.Contains(t, line, "myapp/ebin/Elixir.MyApp.beam")
	assert.Contains(t, line, "1234")
	assert.Contains(t, line, "AtU8 Code")
}

func TestFormatEntryLineLongName(t *testing.T) {
	name := strings.Repeat("x", minEntryColumnWidth+10)
	line := FormatEntryLine(name, 1, "")

	// Long names still get a separating gap before the size column.
	assert.Contains(t, line, name)
	assert.Contains(t, line, "  ")
}

func TestFormatCheckmark(t *testing.T) {
	line := FormatCheckmark("built bin/myapp")

	assert.Contains(t, line, "✔")
	assert.Contains(t, line, "built bin/myapp")
}
