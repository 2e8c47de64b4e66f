package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AryanBlip/Invoice-Automation/internal/bank"
	"github.com/AryanBlip/Invoice-Automation/internal/counter"
	"github.com/AryanBlip/Invoice-Automation/internal/validation"
)

var counterBank string

// counterCmd shows the next invoice number of a bank with a counter.
var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Show the next invoice number",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := bank.Lookup(counterBank)
		if err != nil {
			return validation.NewValidation("counter", "bank", counterBank, err.Error())
		}
		if !v.OwnsCounter {
			fmt.Fprintf(cmd.OutOrStdout(), "%s invoices are numbered by hand.\n", v.Code)
			return nil
		}

		c := counter.New(mainConfig.CounterFile)
		next, err := c.Suggest(time.Now().Year())
		if err != nil {
			return validation.NewIO("counter", "Unable to read "+c.Path(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Next %s invoice number: %s\n", v.Code, next)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(counterCmd)

	counterCmd.Flags().StringVarP(&counterBank, "bank", "b", "EIB", "Bank code")
}
