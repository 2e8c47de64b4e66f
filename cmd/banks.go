package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/config"
	"github.com/AryanBlip/Invoice-Automation/internal/editor"
)

// banksCmd lists the supported banks and their column rules.
var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List the supported banks",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := config.LoadBankProfiles(mainConfig.ConfigsDir)
		if err != nil {
			return err
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Code", "Bank", "Columns", "Grid", "Template", "Counter").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})

		for _, v := range bank.All() {
			counter := ""
			if v.OwnsCounter {
				counter = "yes"
			}
			t.Row(
				v.Code,
				profiles[v.Code].Name,
				v.Discovery.String(),
				strings.Join(editor.Headers(v), ", "),
				mainConfig.TemplatePath(profiles[v.Code]),
				counter,
			)
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(banksCmd)
}
