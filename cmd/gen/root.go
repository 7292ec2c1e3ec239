package gen

import (
	"bytes"
	"fmt"

	"github.com/ValentinKolb/inplace/cmd/util"
	"github.com/ValentinKolb/inplace/lib/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var registry *schema.Registry

// GenCmd generates typed Go views for the loaded definitions
var GenCmd = &cobra.Command{
	Use:   "gen [package] [file]",
	Short: "Generates Go views and descriptors for the loaded definitions",
	Long: `Generates Go views and descriptors for every record, union and static union
among the loaded definitions (see --schema-file and --define).
Use - as file to write to stdout.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := registry.Definitions()
		if only := viper.GetStringSlice("only"); len(only) > 0 {
			defs = filter(defs, only)
		}
		if len(defs) == 0 {
			return fmt.Errorf("no definitions loaded")
		}

		var buf bytes.Buffer
		if err := schema.Generate(&buf, args[0], defs); err != nil {
			return err
		}
		util.Log.Infof("generated %d bytes for %d definitions", buf.Len(), len(defs))
		return util.WriteBuffer(args[1], buf.Bytes())
	},
}

func init() {
	key := "only"
	GenCmd.Flags().StringSlice(key, nil, util.WrapString("Generate only these definitions (comma separated). Referenced definitions have to be generated as well"))
}

// setup reads the configuration and loads the schema definitions
func setup(cmd *cobra.Command, _ []string) error {
	conf, err := util.Setup(cmd)
	if err != nil {
		return err
	}
	registry, err = util.GetRegistry(conf)
	return err
}

func filter(defs []schema.Definition, names []string) []schema.Definition {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	var out []schema.Definition
	for _, d := range defs {
		if keep[d.Name] {
			out = append(out, d)
		}
	}
	return out
}
