package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siyuan-infoblox/imports-order/pkg/config"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
)

func newInitCmd(o *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default " + configFileName + " configuration file",
		Long: `Create a ` + configFileName + ` in the current working directory (or at --config)
holding the built-in profiles so they can be edited manually.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := o.configPath
			if targetPath == "" {
				targetPath = configFileName
			}

			content, err := config.Marshal(config.Default())
			if err != nil {
				return err
			}

			flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
			if force {
				flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			}

			f, err := os.OpenFile(targetPath, flags, 0644)
			if err != nil {
				return fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteConfig, err)
			}
			if _, err := f.Write(content); err != nil {
				_ = f.Close()
				return fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteConfig, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteConfig, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), errors.InfoMsgConfigWritten+"\n", targetPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
