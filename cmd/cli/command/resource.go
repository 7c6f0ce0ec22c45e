package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"libraryconsole/internal/console/client"
	"libraryconsole/internal/console/panel"

	"github.com/spf13/cobra"
)

// resource describes one backend the CLI manages.
type resource struct {
	name     string
	singular string
	fields   []panel.Field
	editable bool
	endpoint func(o *options) string
	build    func(api *client.Client, endpoint string, logger *slog.Logger) panel.Controller
}

var usersResource = resource{
	name:     "users",
	singular: "user",
	fields:   panel.UsersSchema().Fields,
	editable: true,
	endpoint: func(o *options) string { return o.usersAPI },
	build: func(api *client.Client, endpoint string, logger *slog.Logger) panel.Controller {
		return panel.NewUsers(api, endpoint, logger)
	},
}

var booksResource = resource{
	name:     "books",
	singular: "book",
	fields:   panel.BooksSchema().Fields,
	editable: true,
	endpoint: func(o *options) string { return o.booksAPI },
	build: func(api *client.Client, endpoint string, logger *slog.Logger) panel.Controller {
		return panel.NewBooks(api, endpoint, logger)
	},
}

// loans are create-and-list only
var loansResource = resource{
	name:     "loans",
	singular: "loan",
	fields:   panel.LoansSchema().Fields,
	endpoint: func(o *options) string { return o.loansAPI },
	build: func(api *client.Client, endpoint string, logger *slog.Logger) panel.Controller {
		return panel.NewLoans(api, endpoint, logger)
	},
}

func (r resource) panel(o *options) panel.Controller {
	logger := o.logger()
	return r.build(client.New(o.timeout, client.WithLogger(logger)), r.endpoint(o), logger)
}

// flagName turns a form field name into a flag name (user_id => user-id).
func flagName(field panel.Field) string {
	return strings.ReplaceAll(field.Name, "_", "-")
}

func newResourceCmd(r resource, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.name,
		Short: fmt.Sprintf("Manage %s", r.name),
		Args:  cobra.NoArgs, // rejects unknown subcommands
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCmd(r, opts), newCreateCmd(r, opts))
	if r.editable {
		cmd.AddCommand(newUpdateCmd(r, opts), newDeleteCmd(r, opts))
	}
	return cmd
}

func newListCmd(r resource, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %s", r.name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.panel(opts)
			err := p.Load(cmd.Context())
			printView(cmd.OutOrStdout(), p.View())
			return err
		},
	}
}

func newCreateCmd(r resource, opts *options) *cobra.Command {
	values := make(map[string]*string, len(r.fields))

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", r.singular),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.panel(opts)
			form := make(map[string]string, len(values))
			for name, v := range values {
				form[name] = *v
			}
			return submit(cmd, p, panel.CreateMode(), form, fmt.Sprintf("Created %s", r.singular))
		},
	}

	for _, f := range r.fields {
		values[f.Name] = cmd.Flags().String(flagName(f), "", f.Label)
		cmd.MarkFlagRequired(flagName(f))
	}
	return cmd
}

func newUpdateCmd(r resource, opts *options) *cobra.Command {
	values := make(map[string]*string, len(r.fields))

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: fmt.Sprintf("Update a %s", r.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], r.singular)
			if err != nil {
				return err
			}

			p := r.panel(opts)
			if err := loadAndPick(cmd.Context(), p, id, r.singular, p.Edit); err != nil {
				return err
			}

			// start from the current values; only flags given on the command line change
			form := p.View().Form.Values
			for _, f := range r.fields {
				if cmd.Flags().Changed(flagName(f)) {
					form[f.Name] = *values[f.Name]
				}
			}
			return submit(cmd, p, panel.UpdateMode(id), form, fmt.Sprintf("Updated %s (ID: %d)", r.singular, id))
		},
	}

	for _, f := range r.fields {
		values[f.Name] = cmd.Flags().String(flagName(f), "", f.Label)
	}
	return cmd
}

func newDeleteCmd(r resource, opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: fmt.Sprintf("Delete a %s", r.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], r.singular)
			if err != nil {
				return err
			}

			p := r.panel(opts)
			exists := func(id int64) error {
				_, err := p.DeletePrompt(id)
				return err
			}
			if err := loadAndPick(cmd.Context(), p, id, r.singular, exists); err != nil {
				return err
			}

			confirm := promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = alwaysConfirm
			}

			deleted, err := p.Delete(cmd.Context(), id, confirm)
			if err != nil {
				printAlert(cmd.ErrOrStderr(), p.TakeAlert())
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			printSuccess(cmd.OutOrStdout(), "Deleted %s (ID: %d)", r.singular, id)
			printView(cmd.OutOrStdout(), p.View())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// loadAndPick loads the list and applies pick to id, translating a missing
// entity into a readable error.
func loadAndPick(ctx context.Context, p panel.Controller, id int64, singular string, pick func(int64) error) error {
	if err := p.Load(ctx); err != nil {
		return err
	}
	if err := pick(id); err != nil {
		if errors.Is(err, panel.ErrUnknownEntity) {
			return fmt.Errorf("%s %d not found", singular, id)
		}
		return err
	}
	return nil
}

func submit(cmd *cobra.Command, p panel.Controller, mode panel.Mode, form map[string]string, done string) error {
	if err := p.Submit(cmd.Context(), mode, form); err != nil {
		printAlert(cmd.ErrOrStderr(), p.TakeAlert())
		return err
	}
	printSuccess(cmd.OutOrStdout(), "%s", done)
	printView(cmd.OutOrStdout(), p.View())
	return nil
}

func parseID(arg, singular string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID: %s", singular, arg)
	}
	return id, nil
}
