package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List registered classifiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		reg, err := newRegistry()
		if err != nil {
			return err
		}

		exercises := []string{cfg.Exercise}
		if all {
			exercises = reg.Exercises()
		}

		for i, ex := range exercises {
			names, err := reg.Names(ex)
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(ex)
			fmt.Printf("%-22s  %-9s  %-20s  %s\n", "Name", "Type", "Kind", "Descriptor / Members")
			fmt.Println(strings.Repeat("─", 80))
			for _, name := range names {
				e, err := reg.Entry(ex, name)
				if err != nil {
					return err
				}
				marker := " "
				if ex == cfg.Exercise && name == cfg.Model {
					marker = "*"
				}
				source := e.Descriptor
				if len(e.Members) > 0 {
					source = strings.Join(e.Members, ", ")
				}
				if source == "" {
					source = "(built-in)"
				}
				fmt.Printf("%s%-21s  %-9s  %-20s  %s\n", marker, name, e.Type, e.Kind, source)
			}
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().Bool("all", false, "List every exercise, not just the selected one")
}
