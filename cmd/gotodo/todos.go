package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gotodo/backend"
	"gotodo/internal/app"
	"gotodo/internal/cache"
	"gotodo/internal/cli"
	"gotodo/internal/state"
	todosync "gotodo/internal/sync"
	"gotodo/internal/utils"
)

// report prints the alert of a finished operation and turns a failed one
// into a command error
func report(w io.Writer, a *app.App, res state.Synced) error {
	cli.ShowAlert(w, res.Alert)
	if res.Err != nil {
		return a.Explain(res.Err)
	}
	return nil
}

// cachedTodos feeds shell completion from the last snapshot
func cachedTodos() []backend.TodoItem {
	c, err := cache.Default()
	if err != nil {
		return nil
	}
	data, err := c.Load()
	if err != nil {
		return nil
	}
	return data.Todos
}

// fetchItem refreshes the list and returns the todo with the given id
func fetchItem(cmd *cobra.Command, a *app.App, id string) (backend.TodoItem, error) {
	res := a.Controller().FetchAll(cmd.Context())
	if res.Err != nil {
		return backend.TodoItem{}, report(cmd.ErrOrStderr(), a, res)
	}
	for _, item := range res.Todos {
		if item.ID == id {
			return item, nil
		}
	}
	return backend.TodoItem{}, utils.ErrTodoNotFound(id)
}

func newListCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		cached bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show all todos",
		Long: `Fetch and print every todo.

Examples:
  gotodo list                  # Table view
  gotodo list --format json    # Machine readable
  gotodo list --cached         # Last fetched list, no request`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case utils.FormatText, utils.FormatJSON, utils.FormatYAML:
			default:
				return fmt.Errorf("unknown format %q (use text, json or yaml)", format)
			}

			var todos []backend.TodoItem
			if cached {
				c, err := cache.Default()
				if err != nil {
					return err
				}
				data, err := c.Load()
				if err != nil {
					return utils.WrapWithSuggestion(fmt.Errorf("no cached list: %w", err),
						"Run 'gotodo list' once while the server is reachable")
				}
				utils.Debugf("using snapshot of %s from %s", data.BaseURL, data.FetchedAt())
				todos = data.Todos
			} else {
				a, err := flags.loadApp()
				if err != nil {
					return err
				}
				res := a.Controller().FetchAll(cmd.Context())
				if res.Err != nil {
					return report(cmd.ErrOrStderr(), a, res)
				}
				todos = res.Todos
			}

			if todos == nil {
				todos = []backend.TodoItem{}
			}
			if format != utils.FormatText {
				return utils.Output(cmd.OutOrStdout(), format, todos)
			}
			cli.ShowTodos(cmd.OutOrStdout(), todos, cli.GetTerminalWidth())
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", utils.FormatText, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&cached, "cached", false, "print the last fetched list without contacting the server")
	return cmd
}

func newAddCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, ok := backend.NormalizeTitle(strings.Join(args, " "))
			if !ok {
				return utils.ErrEmptyTitle()
			}
			a, err := flags.loadApp()
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), a, a.Controller().Create(cmd.Context(), title))
		},
	}
}

func newEditCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "edit <id> <title...>",
		Short:             "Change the title of a todo",
		Long:              "Change the title of a todo. The todo is marked incomplete unless preserve_completion_on_edit is set.",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: cli.TodoIDCompletion(cachedTodos),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, ok := backend.NormalizeTitle(strings.Join(args[1:], " "))
			if !ok {
				return utils.ErrEmptyTitle()
			}
			a, err := flags.loadApp()
			if err != nil {
				return err
			}
			item, err := fetchItem(cmd, a, args[0])
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), a, a.Controller().Update(cmd.Context(), item.ID, title))
		},
	}
}

func newToggleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "toggle <id>",
		Short:             "Flip the completion of a todo",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.TodoIDCompletion(cachedTodos),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.loadApp()
			if err != nil {
				return err
			}
			item, err := fetchItem(cmd, a, args[0])
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), a, a.Controller().Toggle(cmd.Context(), item))
		},
	}
}

func newRemoveCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:               "rm <id>",
		Aliases:           []string{"delete"},
		Short:             "Delete a todo",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.TodoIDCompletion(cachedTodos),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.loadApp()
			if err != nil {
				return err
			}

			var confirm todosync.ConfirmFunc = func(question string) bool {
				return utils.PromptYesNoFrom(cmd.InOrStdin(), cmd.OutOrStdout(), question)
			}
			if yes {
				confirm = func(string) bool { return true }
			}

			res := a.Controller().Remove(cmd.Context(), args[0], confirm)
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			return report(cmd.OutOrStdout(), a, res)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}
