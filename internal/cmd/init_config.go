package cmd

import (
	"errors"
	"fmt"

	"github.com/dvcrn/wework-cli/internal/config"
	"github.com/dvcrn/wework-cli/internal/misc"
	"github.com/dvcrn/wework-cli/internal/tui"
	"github.com/spf13/cobra"
)

func newInitConfigCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init-config",
		Short:       "Write an example config file",
		Long:        `Write a commented example configuration to --config (default ~/.wework/config.yaml).`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := a.resolveConfigPath(cmd)
			if path == "" {
				return fmt.Errorf("cannot resolve a config path, pass --config")
			}
			err := misc.WriteConfigTemplate(path, []byte(config.ExampleConfig), force)
			if errors.Is(err, misc.ErrConfigExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			if err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			a.println(tui.Success("Config written to " + path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
