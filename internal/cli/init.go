package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file",
		Long:  "Create the configuration directory and a config.yaml holding the default settings.\nAn existing config.yaml is left untouched.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	if a.flags.cropDir != "" {
		cfg.CropDir = a.cropDir
	}

	path := filepath.Join(a.configDir, configFileExt)
	created, err := writeConfigIfMissing(a.configDir, cfg)
	if err != nil {
		return sysError(err)
	}
	if !created {
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists: %s\n", path)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to: %s\n", path)
	return nil
}
