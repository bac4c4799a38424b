package cmd

import (
	"github.com/nikogura/ats-cv/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Init writes a TOML config with the built-in defaults to --config, or to
$HOME/.ats-cv/config.toml when --config is not given. An existing file is
never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	var path string
	path, err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	loggerFromContext(cmd.Context()).Debug("Config written", "path", path)

	printSuccess("Config created")
	printFile(path)

	return err
}
