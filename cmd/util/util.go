package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/inplace/lib/schema"
	"github.com/ValentinKolb/inplace/wire/common"
	"github.com/ValentinKolb/inplace/wire/serializer"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// Log is the logger of the command line tools
var Log = logger.GetLogger("cli")

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("inplace")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetConfig reads the tool configuration from viper. If a config file is set it is read first,
// flags and environment variables take precedence over it.
func GetConfig() (*common.Config, error) {
	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	conf := &common.Config{
		LogLevel:    viper.GetString("log-level"),
		Serializer:  viper.GetString("serializer"),
		SchemaFiles: viper.GetStringSlice("schema-file"),
		Definitions: viper.GetStringMapString("define"),
		BufferLimit: viper.GetUint32("buffer-limit"),
		Output:      viper.GetString("output"),
		Workers:     viper.GetInt("workers"),
	}
	// definitions from a config file live under their own key
	for name, expr := range viper.GetStringMapString("definitions") {
		if _, ok := conf.Definitions[name]; !ok {
			conf.Definitions[name] = expr
		}
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return conf, nil
}

// Setup binds the flags of cmd, reads the configuration and initializes the loggers
func Setup(cmd *cobra.Command) (*common.Config, error) {
	if err := BindCommandFlags(cmd); err != nil {
		return nil, err
	}
	conf, err := GetConfig()
	if err != nil {
		return nil, err
	}
	if err := common.InitLoggers(*conf); err != nil {
		return nil, err
	}
	Log.Debugf("configuration:%s", conf)
	return conf, nil
}

// GetRegistry creates a registry with all definitions of the configuration
func GetRegistry(conf *common.Config) (*schema.Registry, error) {
	r := schema.NewRegistry()
	for _, path := range conf.SchemaFiles {
		if err := r.LoadFile(path); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := r.DefineAll(conf.Definitions); err != nil {
		return nil, err
	}
	return r, nil
}

// GetSerializer creates a serializer based on configuration
func GetSerializer(name string) (serializer.IRPCSerializer, error) {
	switch name {
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "gob":
		return serializer.NewGOBSerializer(), nil
	case "msgpack":
		return serializer.NewMsgpackSerializer(), nil
	case "binary":
		return serializer.NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
}

// ReadBuffer reads a whole file, or stdin for "-", refusing inputs larger than limit
func ReadBuffer(path string, limit uint32) ([]byte, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open buffer: %w", err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read buffer: %w", err)
	}
	if len(b) > int(limit) {
		return nil, fmt.Errorf("buffer %s exceeds the limit of %d bytes", path, limit)
	}
	return b, nil
}

// WriteBuffer writes b to a file, or stdout for "-"
func WriteBuffer(path string, b []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write buffer: %w", err)
	}
	return nil
}
