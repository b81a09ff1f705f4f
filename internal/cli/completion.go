package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"gotodo/backend"
)

// TodoIDCompletion completes the first argument with ids of known todos,
// showing each title as the description
func TodoIDCompletion(load func() []backend.TodoItem) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var completions []string
		for _, item := range load() {
			if strings.HasPrefix(item.ID, toComplete) {
				completions = append(completions, item.ID+"\t"+item.Title)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}
