package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/atelier-interiors/cms-backend/internal/content/actions"
	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/query"
)

func newSectionCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Read or replace a site content section",
	}
	cmd.AddCommand(newSectionGetCommand(deps), newSectionPutCommand(deps))
	return cmd
}

func newSectionGetCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a section as JSON, falling back to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := deps.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			section := query.New(app.Store).GetSiteContent(cmd.Context(), args[0])
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(section)
		},
	}
}

func newSectionPutCommand(deps Deps) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "put <key>",
		Short: "Replace a section with a JSON object read from --file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				fh, err := os.Open(file)
				if err != nil {
					return wrapExit(ExitCommandError, "open document", err)
				}
				defer fh.Close()
				in = fh
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return wrapExit(ExitCommandError, "read document", err)
			}
			doc, err := actions.ParseDocument(raw)
			if err != nil {
				return wrapExit(ExitCommandError, "parse document", err)
			}

			app, err := deps.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := domain.WithRole(cmd.Context(), domain.RoleAdmin)
			res := actions.New(app.Store, app.Publisher, app.Pages).UpdateSiteContent(ctx, args[0], doc)
			if !res.Success {
				return wrapExit(ExitFailure, res.Error+formatDetails(res.Details), nil)
			}
			cmd.Printf("updated section %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON document, - for stdin")
	return cmd
}
