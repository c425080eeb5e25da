package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// recordsCmd represents the records command group
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect and manage stored citation records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records in insertion order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		records, err := buildStore(ctx, loadConfig())
		if err != nil {
			return err
		}

		all, err := records.List(ctx)
		if err != nil {
			return fmt.Errorf("list records: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No records stored.")
			return nil
		}

		for _, r := range all {
			fmt.Printf("%s  [%s/%s]  %s\n", r.ID, r.CitationStatus, r.CaseNameStatus, r.OriginalText)
		}
		return nil
	},
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one record by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid record id: %w", err)
		}

		ctx := context.Background()
		records, err := buildStore(ctx, loadConfig())
		if err != nil {
			return err
		}
		if err := records.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
		if err := records.Commit(ctx); err != nil {
			return fmt.Errorf("commit delete: %w", err)
		}
		fmt.Println("Record deleted.")
		return nil
	},
}

var recordsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		records, err := buildStore(ctx, loadConfig())
		if err != nil {
			return err
		}
		if err := records.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear records: %w", err)
		}
		fmt.Println("All records deleted.")
		return nil
	},
}

func init() {
	recordsCmd.AddCommand(recordsListCmd, recordsDeleteCmd, recordsClearCmd)
	rootCmd.AddCommand(recordsCmd)
}
