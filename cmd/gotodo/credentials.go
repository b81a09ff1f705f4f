package main

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gotodo/internal/credentials"
	"gotodo/internal/utils"
)

func newCredentialsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the API token",
		Long: `Securely manage the bearer token sent to the todo API.

The token is looked up in this order:
  1. System keyring, keyed by the API host (recommended)
  2. GOTODO_API_TOKEN environment variable
  3. api_token in the config file

Examples:
  gotodo credentials set --prompt     # Interactive token prompt
  gotodo credentials get              # Show where the token comes from
  gotodo credentials delete           # Remove the token from the keyring`,
	}

	cmd.AddCommand(newCredentialsSetCmd(flags))
	cmd.AddCommand(newCredentialsGetCmd(flags))
	cmd.AddCommand(newCredentialsDeleteCmd(flags))

	return cmd
}

// apiHost returns the keyring key for the configured API
func (g *globalFlags) apiHost() (string, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return "", err
	}
	return credentials.HostOf(cfg.APIURL)
}

func newCredentialsSetCmd(flags *globalFlags) *cobra.Command {
	var promptToken bool

	cmd := &cobra.Command{
		Use:   "set [token]",
		Short: "Store the API token in the system keyring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := flags.apiHost()
			if err != nil {
				return err
			}

			var token string
			if promptToken {
				fmt.Fprintf(cmd.OutOrStdout(), "Enter API token for %s: ", host)
				tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
				token = strings.TrimSpace(string(tokenBytes))
			} else if len(args) == 1 {
				token = strings.TrimSpace(args[0])
			} else {
				return fmt.Errorf("token is required (use --prompt for interactive input)")
			}
			if token == "" {
				return fmt.Errorf("token cannot be empty")
			}

			if err := credentials.Set(host, token); err != nil {
				if !credentials.IsAvailable() {
					return utils.WrapWithSuggestion(err,
						fmt.Sprintf("System keyring is not available. Use the environment instead:\n  export %s=<token>", credentials.EnvToken))
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Token stored for %s\n", host)
			return nil
		},
	}

	cmd.Flags().BoolVar(&promptToken, "prompt", false, "Prompt for the token interactively (recommended)")
	return cmd
}

func newCredentialsGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show which token source is used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			creds, err := credentials.NewResolver().Resolve(cfg.APIURL, cfg.APIToken)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Host:   %s\n", creds.Host)
			fmt.Fprintf(out, "Source: %s\n", creds.Source)
			if creds.Source == credentials.SourceNone {
				fmt.Fprintln(out, "\nNo token configured; requests are sent without authorization.")
			}
			return nil
		},
	}
}

func newCredentialsDeleteCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the API token from the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := flags.apiHost()
			if err != nil {
				return err
			}

			if !force && !utils.PromptYesNoFrom(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("Delete the stored token for %s?", host)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := credentials.Delete(host); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Token removed for %s\n", host)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}
