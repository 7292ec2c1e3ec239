package common

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/hengadev/errsx"
)

// Supported serializer and output format names
var (
	Serializers   = []string{"binary", "json", "gob", "msgpack"}
	OutputFormats = []string{"text", "color", "json", "yaml"}
)

// DefaultBufferLimit is the largest buffer the tools imprint or read when no limit is configured
const DefaultBufferLimit = 64 << 20

// --------------------------------------------------------------------------
// Tool configuration struct
// --------------------------------------------------------------------------

// Config holds all settings of the command line tools
type Config struct {
	// Logging configuration
	LogLevel string

	// Serializer used by the perf command
	Serializer string

	// SchemaFiles are YAML files with named type definitions
	SchemaFiles []string
	// Definitions are named type definitions given inline (name -> expression)
	Definitions map[string]string

	// BufferLimit caps the size of buffers that are imprinted or read
	BufferLimit uint32
	// Output is the format values are printed in
	Output string
	// Workers is the number of files checked in parallel
	Workers int
}

// Validate checks all settings and reports every invalid one
func (c *Config) Validate() error {
	errs := errsx.Map{}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs.Set("log-level", err)
	}
	if !slices.Contains(Serializers, c.Serializer) {
		errs.Set("serializer", fmt.Errorf("unknown serializer %q, must be one of %s", c.Serializer, strings.Join(Serializers, ", ")))
	}
	if !slices.Contains(OutputFormats, c.Output) {
		errs.Set("output", fmt.Errorf("unknown output format %q, must be one of %s", c.Output, strings.Join(OutputFormats, ", ")))
	}
	if c.BufferLimit == 0 {
		errs.Set("buffer-limit", fmt.Errorf("buffer limit must be positive"))
	}
	if c.Workers < 1 {
		errs.Set("workers", fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	return errs.AsError()
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("General")
	addField("Log Level", c.LogLevel)
	addField("Serializer", c.Serializer)
	addField("Output", c.Output)
	addField("Buffer Limit", fmt.Sprintf("%d bytes", c.BufferLimit))
	addField("Workers", strconv.Itoa(c.Workers))

	if len(c.SchemaFiles) > 0 {
		addSection("Schema Files")
		for i, f := range c.SchemaFiles {
			addField(strconv.Itoa(i), f)
		}
	}

	if len(c.Definitions) > 0 {
		addSection("Definitions")

		// Sort keys for consistent output
		var names []string
		for name := range c.Definitions {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			addField(name, c.Definitions[name])
		}
	}
	return sb.String()
}
