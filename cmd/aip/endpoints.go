package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/aip-client"
)

func newEndpointsCmd(opts *cliOptions) *cobra.Command {
	var families bool

	cmd := &cobra.Command{
		Use:   "endpoints",
		Short: "List the endpoint catalog or the job families",
		RunE: func(cmd *cobra.Command, args []string) error {
			// listing needs no credentials
			cli := client.NewClient(client.WithLogger(opts.logger))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if families {
				fmt.Fprintln(w, "FAMILY\tSUBMIT\tPOLL\tSTATUS")
				for _, f := range cli.Families() {
					status := f.Status.Path
					if f.Status.PresenceOnly {
						status += " (present)"
					} else {
						status += fmt.Sprintf(" == %d", f.Status.Finished)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.Submit, f.Poll, status)
				}
				return w.Flush()
			}

			fmt.Fprintln(w, "NAME\tINPUTS\tENCODING\tREQUIRED\tPATH")
			for _, ep := range cli.Endpoints() {
				required := strings.Join(ep.Required, ",")
				if required == "" {
					required = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ep.Name, ep.Inputs, ep.Encoding, required, ep.Path)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&families, "families", false, "List job families instead of endpoints")

	return cmd
}
