package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/query"
)

func newInquiriesCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inquiries",
		Short: "Inspect the inquiry inbox",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Count inquiries per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := deps.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := domain.WithRole(cmd.Context(), domain.RoleAdmin)
			s := query.New(app.Store).GetInquiryStats(ctx)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %d\n", color.New(color.FgYellow).Sprint("new"), s.New)
			fmt.Fprintf(out, "%-10s %d\n", "contacted", s.Contacted)
			fmt.Fprintf(out, "%-10s %d\n", color.New(color.FgGreen).Sprint("converted"), s.Converted)
			fmt.Fprintf(out, "%-10s %d\n", "closed", s.Closed)
			fmt.Fprintf(out, "%-10s %d\n", "total", s.Total)
			return nil
		},
	})
	return cmd
}
