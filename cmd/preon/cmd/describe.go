package cmd

import (
	"fmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// describeCmd represents the describe command.
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the fields of a schema",
	Long: `Describe builds the codecs of the schema and prints, for every field,
its value type, its declared size and a summary of its encoding.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		binder, err := newBinder()
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"field", "type", "size", "codec"})
		table.SetBorder(true)
		for _, d := range binder.Describe() {
			table.Append([]string{d.Name, d.Type, d.Size, d.Reference})
		}
		table.Render()

		for _, d := range binder.Describe() {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%v: %v\n", d.Name, d.Summary)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
