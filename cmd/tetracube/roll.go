package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/tetracube/internal/ability"
	"github.com/cory-johannsen/tetracube/internal/dice"
)

func (a *app) rollCmd() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "roll <file> <feature>",
		Short: "Roll every damage part of one feature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.convertFile(args[0])
			if err != nil {
				return err
			}
			f, ok := findFeature(res.Features, args[1])
			if !ok {
				return fmt.Errorf("%s has no feature named %q", res.Actor.Name, args[1])
			}
			if len(f.DamageParts) == 0 {
				return fmt.Errorf("feature %q has no damage to roll", f.Name)
			}

			src := dice.NewCryptoSource()
			if cmd.Flags().Changed("seed") {
				src = dice.NewSeededSource(seed)
			}
			roller := dice.NewRoller(src, a.logger)

			out := cmd.OutOrStdout()
			total := 0
			for _, part := range f.DamageParts {
				d, err := roller.RollDamage(part.Dice, part.Type)
				if err != nil {
					return fmt.Errorf("feature %q: %w", f.Name, err)
				}
				total += d.Total()
				fmt.Fprintln(out, d)
			}
			fmt.Fprintf(out, "total: %d\n", total)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "roll from a deterministic source seeded with this value")
	return cmd
}

// findFeature matches name case-insensitively against the feature names.
func findFeature(features []ability.Feature, name string) (ability.Feature, bool) {
	for _, f := range features {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return ability.Feature{}, false
}
