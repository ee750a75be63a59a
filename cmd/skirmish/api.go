package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/milk9111/skirmish/script"
)

var flagAPIJSON bool

type apiEntry struct {
	Name         string   `json:"name"`
	Member       string   `json:"member"`
	Returns      string   `json:"returns"`
	Params       []string `json:"params,omitempty"`
	Description  string   `json:"description"`
	DeprecatedBy string   `json:"deprecated_by,omitempty"`
}

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "List the script API",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups := script.DefaultRegistry(log).Describe()
		out := cmd.OutOrStdout()

		if flagAPIJSON {
			doc := map[string][]apiEntry{}
			for _, g := range groups {
				for _, d := range g.Descriptors {
					e := apiEntry{
						Name:         d.Name,
						Member:       d.Member.String(),
						Returns:      d.Returns.String(),
						Description:  d.Description,
						DeprecatedBy: d.DeprecatedBy,
					}
					for _, p := range d.Params {
						e.Params = append(e.Params, p.String())
					}
					doc[g.Name] = append(doc[g.Name], e)
				}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		}

		for _, g := range groups {
			fmt.Fprintf(out, "%s\n", g.Name)
			for _, d := range g.Descriptors {
				line := "  " + d.Signature()
				if d.DeprecatedBy != "" {
					line += " (deprecated, use " + d.DeprecatedBy + ")"
				}
				fmt.Fprintln(out, line)
				fmt.Fprintf(out, "      %s\n", strings.TrimSpace(d.Description))
			}
		}
		return nil
	},
}

func init() {
	apiCmd.Flags().BoolVar(&flagAPIJSON, "json", false, "output as JSON")
}
