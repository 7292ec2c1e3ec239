package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/ValentinKolb/inplace/cmd/buf"
	"github.com/ValentinKolb/inplace/cmd/gen"
	"github.com/ValentinKolb/inplace/cmd/perf"
	"github.com/ValentinKolb/inplace/cmd/util"
	"github.com/ValentinKolb/inplace/wire/common"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "inplace",
		Short: "zero-copy binary encoding toolkit",
		Long: fmt.Sprintf(`inplace (v%s)

Tools for the in-arena binary encoding: imprint zeroed buffers from a
type expression, validate and inspect them, edit scalars in place and
generate typed Go views.

Type expressions: u8 i8 bool u16 i16 u32 i32 f32 u64 i64 f64 char unit
bytes[n] str[n] list<T>[n] record{a: T, b: T} union{a: T | b: T}
static{a: T | b: T} and names defined with --define or --schema-file.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of inplace",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("inplace v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(buf.Commands...)
	RootCmd.AddCommand(gen.GenCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "config"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("Optional config file (yaml, toml or json) with the same keys as the flags and a definitions map"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("Log level (debug, info, warn, error)"))
	key = "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString(fmt.Sprintf("Serializer to use (%s)", strings.Join(common.Serializers, ", "))))
	key = "schema-file"
	RootCmd.PersistentFlags().StringSlice(key, nil, util.WrapString("YAML files mapping type names to expressions (repeatable)"))
	key = "define"
	RootCmd.PersistentFlags().StringToString(key, nil, util.WrapString("Named types as name=expression (repeatable)"))
	key = "buffer-limit"
	RootCmd.PersistentFlags().Uint32(key, common.DefaultBufferLimit, util.WrapString("Largest buffer to imprint or read (in bytes)"))
	key = "output"
	RootCmd.PersistentFlags().StringP(key, "o", "text", util.WrapString(fmt.Sprintf("Output format (%s)", strings.Join(common.OutputFormats, ", "))))
	key = "workers"
	RootCmd.PersistentFlags().Int(key, runtime.NumCPU(), util.WrapString("Number of buffers checked in parallel"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
