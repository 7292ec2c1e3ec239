package buf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ValentinKolb/inplace/cmd/util"
	"github.com/ValentinKolb/inplace/lib/arena"
	"github.com/ValentinKolb/inplace/lib/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	imprintCmd = &cobra.Command{
		Use:   "imprint [type] [file]",
		Short: "Writes a zeroed buffer for a type",
		Long: `Writes a zeroed buffer for a type. Lengths of bytes and str and capacities of
lists are taken from [n] annotations, unions start with their first variant.
Use - as file to write to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, typ, err := registry.Compile(args[0])
			if err != nil {
				return err
			}
			plan, err := n.Imprinter()
			if err != nil {
				return err
			}
			size, err := plan.ResultSize()
			if err != nil {
				return err
			}
			if size > arena.Ptr(conf.BufferLimit) {
				return fmt.Errorf("buffer of %d bytes exceeds the limit of %d bytes", size, conf.BufferLimit)
			}
			b, err := arena.CreateBuffer(plan)
			if err != nil {
				return err
			}

			// apply initial values
			if assignments := viper.GetStringSlice("set"); len(assignments) > 0 {
				v, err := arena.Create(typ, b)
				if err != nil {
					return err
				}
				for _, a := range assignments {
					path, text, ok := strings.Cut(a, "=")
					if !ok {
						return fmt.Errorf("invalid assignment %q, expected path=value", a)
					}
					if err := schema.Set(v, path, text); err != nil {
						return err
					}
				}
			}

			util.Log.Infof("imprinted %s (%d bytes)", n, len(b))
			return util.WriteBuffer(args[1], b)
		},
	}
	inspectCmd = &cobra.Command{
		Use:   "inspect [type] [file]",
		Short: "Validates a buffer and prints its value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, rest, err := open(args[0], args[1])
			if err != nil {
				return err
			}
			if rest > 0 {
				util.Log.Warningf("%d trailing bytes after the value", rest)
			}
			if path := viper.GetString("path"); path != "" {
				if v, err = schema.Lookup(v, path); err != nil {
					return err
				}
			}
			return printValue(v, conf.Output)
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [type] [file] [path] [value]",
		Short: "Writes a scalar inside a buffer in place",
		Long: `Writes a scalar inside a buffer in place. Numbers accept the 0x, 0o and 0b
prefixes, bytes are given in hex, bytes and str keep their length.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := util.ReadBuffer(args[1], conf.BufferLimit)
			if err != nil {
				return err
			}
			_, typ, err := registry.Compile(args[0])
			if err != nil {
				return err
			}
			v, err := arena.Create(typ, b)
			if err != nil {
				return err
			}
			if err := schema.Set(v, args[2], args[3]); err != nil {
				return err
			}
			if err := util.WriteBuffer(args[1], b); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	sizeCmd = &cobra.Command{
		Use:   "size [type] [file]",
		Short: "Prints the encoded size of the value at the start of a buffer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := util.ReadBuffer(args[1], conf.BufferLimit)
			if err != nil {
				return err
			}
			_, typ, err := registry.Compile(args[0])
			if err != nil {
				return err
			}
			size, err := arena.InBounds(typ, b)
			if err != nil {
				return err
			}
			fmt.Printf("%-10s%s\n", "strategy", typ.Strategy())
			fmt.Printf("%-10s%d bytes\n", "value", size)
			fmt.Printf("%-10s%d bytes\n", "buffer", len(b))
			return nil
		},
	}
	checkCmd = &cobra.Command{
		Use:   "check [type] [files...]",
		Short: "Validates many buffers concurrently",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, typ, err := registry.Compile(args[0])
			if err != nil {
				return err
			}
			files := args[1:]
			results := make([]error, len(files))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(conf.Workers)
			for i, path := range files {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					b, err := util.ReadBuffer(path, conf.BufferLimit)
					if err != nil {
						return err
					}
					results[i] = checkBuffer(typ, b)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			ok, fail := color.New(color.FgGreen), color.New(color.FgRed)
			if conf.Output != "color" {
				ok.DisableColor()
				fail.DisableColor()
			}
			failed := 0
			for i, path := range files {
				if results[i] != nil {
					failed++
					fmt.Printf("%s %s: %v\n", fail.Sprint("FAIL"), path, results[i])
				} else {
					fmt.Printf("%s   %s\n", ok.Sprint("ok"), path)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d buffers are invalid", failed, len(files))
			}
			return nil
		},
	}
	defsCmd = &cobra.Command{
		Use:   "defs",
		Short: "Lists the loaded type definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range registry.Definitions() {
				t, err := d.Node.Compile()
				if err != nil {
					return fmt.Errorf("%s: %w", d.Name, err)
				}
				size := "scan"
				if t.Strategy() == arena.Fixed {
					size = fmt.Sprintf("%d bytes", t.FixedSize())
				}
				fmt.Printf("%-20s%-12s%s\n", d.Name, size, d.Node)
			}
			return nil
		},
	}
)

func init() {
	key := "set"
	imprintCmd.Flags().StringSlice(key, nil, util.WrapString("Initial values as path=value (repeatable)"))
	key = "path"
	inspectCmd.Flags().String(key, "", util.WrapString("Dotted path of the value to print (e.g. items.0.name)"))
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// open reads a buffer and builds a validated view of expr over it. It also returns the number of
// bytes after the value.
func open(expr, path string) (schema.Value, int, error) {
	b, err := util.ReadBuffer(path, conf.BufferLimit)
	if err != nil {
		return nil, 0, err
	}
	_, typ, err := registry.Compile(expr)
	if err != nil {
		return nil, 0, err
	}
	rest, v, err := typ.Build(b)
	if err != nil {
		return nil, 0, err
	}
	return v, len(rest), nil
}

// checkBuffer validates b and requires it to hold exactly one value
func checkBuffer(typ arena.Type[schema.Value], b []byte) error {
	rest, err := arena.Unused(typ, b)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("%d trailing bytes", len(rest))
	}
	return nil
}

// printValue prints v in the given output format
func printValue(v schema.Value, output string) error {
	switch output {
	case "text", "color":
		return schema.Render(os.Stdout, v, output == "color")
	case "json", "yaml":
		exported, err := schema.Export(v)
		if err != nil {
			return err
		}
		if output == "yaml" {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(exported)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(exported)
	default:
		return errors.New("unknown output format " + output)
	}
}
