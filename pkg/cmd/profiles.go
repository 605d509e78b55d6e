package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/siyuan-infoblox/imports-order/pkg/config"
)

func newProfilesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available profiles",
		Long: `List the profiles from the config file and the built-in presets, in the
order automatic selection tries them. The selected profile is marked with "*".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, _, err := o.setup(nil)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderProfilesTable(set))
			return nil
		},
	}
}

func renderProfilesTable(set *config.Set) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Profile", "Detect", "Order", "Alphabetize"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, p := range set.Profiles() {
		name := p.Name
		if name == set.Selected() {
			name += " *"
		}

		var order, alphabetize []string
		for _, cat := range p.Checker.Order() {
			order = append(order, string(cat))
			if p.Checker.Alphabetized(cat) {
				alphabetize = append(alphabetize, string(cat))
			}
		}

		table.Append([]string{
			name,
			strings.Join(p.Detect, ", "),
			strings.Join(order, " > "),
			strings.Join(alphabetize, ", "),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Selected: %s", set.Selected()), "", "", ""})

	table.Render()

	return tableBuffer.String()
}
