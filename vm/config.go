package vm

import (
	"io"
	"os"
)

// DefaultStackMax is the value stack capacity used by NewVM.
const DefaultStackMax = 256

// Config holds VM construction options.
type Config struct {
	StackMax    int       // Value stack capacity; must be positive
	Trace       bool      // Print stack and instruction before each step
	TraceWriter io.Writer // Trace destination; nil means stdout
}

// DefaultConfig returns the configuration used by NewVM.
func DefaultConfig() Config {
	return Config{
		StackMax: DefaultStackMax,
	}
}

func (c Config) traceWriter() io.Writer {
	if c.TraceWriter != nil {
		return c.TraceWriter
	}
	return os.Stdout
}
