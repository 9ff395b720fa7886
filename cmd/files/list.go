package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-files/pkg/simplefiles"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every file record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		repo, cleanup, err := cfg.BuildRepository(cmd.Context(), logger)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := repo.FindAll(cmd.Context())
		if err != nil {
			return err
		}
		return printRecords(cmd.OutOrStdout(), records)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func printRecords(out io.Writer, records []*simplefiles.FileRecord) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFILE\tKEY\tCREATED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Title, simplefiles.DisplayName(r.StoredName), r.ObjectKey(), r.CreatedDate.Format("2006-01-02"))
	}
	return tw.Flush()
}
