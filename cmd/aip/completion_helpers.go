package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	client "github.com/hsn0918/aip-client"
)

// positionalAlwaysFlags returns all flags (local + inherited) even when user did not type a dash.
func positionalAlwaysFlags(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	flags := make([]string, 0, 16)

	add := func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		if f.Shorthand != "" {
			flags = append(flags, "-"+f.Shorthand)
		}
		flags = append(flags, "--"+f.Name)
	}

	cmd.NonInheritedFlags().VisitAll(add)
	cmd.InheritedFlags().VisitAll(add)

	return flags, cobra.ShellCompDirectiveNoFileComp
}

// completeEndpoints offers catalog names for the first positional argument, then flags.
func completeEndpoints(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return positionalAlwaysFlags(cmd, args, toComplete)
	}
	endpoints := client.DefaultCatalog().List()
	names := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		names = append(names, ep.Name+"\t"+ep.Inputs.String())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeFamilies offers the built-in job family names.
func completeFamilies(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		client.FamilyTableRecognition,
		client.FamilyLongVideoCensor,
		client.FamilyAsyncVoiceCensor,
	}, cobra.ShellCompDirectiveNoFileComp
}
