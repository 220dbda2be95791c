package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func (a *app) convertCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert one statblock and print the result as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.convertFile(args[0])
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(res)
			if err != nil {
				return fmt.Errorf("encoding %q: %w", res.Actor.Name, err)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			a.logger.Info("wrote conversion",
				zap.String("name", res.Actor.Name),
				zap.String("path", output),
				zap.Int("features", len(res.Features)),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write YAML to this file instead of stdout")
	return cmd
}
