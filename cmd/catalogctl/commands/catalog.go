package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/yigit/courseplanner/internal/app/catalog"
	"github.com/yigit/courseplanner/internal/app/importer"
	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/app/repositories"
	"github.com/yigit/courseplanner/internal/db"
)

func catalogCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Build, dump and import the aggregated catalog",
	}
	cmd.AddCommand(dumpCmd(e), importCmd(e))
	return cmd
}

func dumpCmd(e *env) *cobra.Command {
	var csvPath string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the aggregated catalog from the database or a CSV export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rows []models.CourseDataRow
				err  error
			)
			if csvPath != "" {
				rows, err = readCSV(csvPath)
			} else {
				rows, err = e.readDatabase(cmd.Context())
			}
			if err != nil {
				return err
			}

			store := catalog.NewStore(e.cfg.Codec())
			stats, err := store.Load(rows)
			if err != nil {
				return err
			}
			e.log.Debug().
				Int("rows", stats.Rows).
				Int("departments", stats.Departments).
				Int("courses", stats.Courses).
				Msg("Catalog built")

			return catalog.WriteDump(cmd.OutOrStdout(), store.Snapshot())
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "read rows from a CSV export instead of the database")
	return cmd
}

func importCmd(e *env) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load a CSV export into the course_data table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readCSV(args[0])
			if err != nil {
				return err
			}

			// Refuse rows the catalog would reject on load
			if _, err := catalog.NewStore(e.cfg.Codec()).Load(rows); err != nil {
				return err
			}

			database, err := db.NewPostgresDB(cmd.Context(), e.cfg, e.log)
			if err != nil {
				return err
			}
			defer database.Close()

			repo := repositories.NewCourseDataRepository(database.Pool)
			var written int64
			err = database.WithTransaction(cmd.Context(), func(ctx context.Context, tx pgx.Tx) error {
				if replace {
					if err := repo.Truncate(ctx, tx); err != nil {
						return err
					}
				}
				written, err = repo.CopyRows(ctx, tx, rows)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows\n", written)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "delete existing rows first")
	return cmd
}

func readCSV(path string) ([]models.CourseDataRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importer.ReadCourseData(f)
}

func (e *env) readDatabase(ctx context.Context) ([]models.CourseDataRow, error) {
	database, err := db.NewPostgresDB(ctx, e.cfg, e.log)
	if err != nil {
		return nil, err
	}
	defer database.Close()
	return repositories.NewCourseDataRepository(database.Pool).ListAll(ctx)
}
