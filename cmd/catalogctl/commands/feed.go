package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yigit/courseplanner/internal/bootstrap"
)

func feedCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Query the registrar browse feed",
	}

	var code int
	fetch := &cobra.Command{
		Use:   "fetch DEPT NUMBER",
		Short: "Print a course's sections for one semester as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == 0 {
				code = e.cfg.Catalog.EnrollingSemester
			}
			client := bootstrap.NewFeedClient(e.cfg, e.log)
			result, err := client.FetchCourseSections(cmd.Context(), args[0], args[1], code)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return nil
		},
	}
	fetch.Flags().IntVar(&code, "semester", 0, "semester code (default: configured enrolling semester)")

	cmd.AddCommand(fetch)
	return cmd
}
