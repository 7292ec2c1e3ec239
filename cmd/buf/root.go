package buf

import (
	"github.com/ValentinKolb/inplace/cmd/util"
	"github.com/ValentinKolb/inplace/lib/schema"
	"github.com/ValentinKolb/inplace/wire/common"
	"github.com/spf13/cobra"
)

var (
	conf     *common.Config
	registry *schema.Registry

	// Commands are the commands working on buffer files
	Commands = []*cobra.Command{imprintCmd, inspectCmd, setCmd, sizeCmd, checkCmd, defsCmd}
)

func init() {
	for _, cmd := range Commands {
		cmd.PreRunE = setup
	}
}

// setup reads the configuration and loads the schema definitions
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if conf, err = util.Setup(cmd); err != nil {
		return err
	}
	registry, err = util.GetRegistry(conf)
	return err
}
