package cli

import (
	"fmt"

	"github.com/mkoval/citehound/internal/token"
	"github.com/spf13/cobra"
)

// tokenCmd represents the token command group
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the verification service credential",
	Long: `The citation lookup endpoints require an API token. The token is
stored in a file readable only by the owner and read before each
verification call.`,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <credential>",
	Short: "Store the API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := token.NewFileStore(tokenStorePath())
		if err := store.Set(args[0]); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		fmt.Println("Token stored.")
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := token.NewFileStore(tokenStorePath())
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		fmt.Println("Token cleared.")
		return nil
	},
}

var tokenStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API token is stored",
	Run: func(cmd *cobra.Command, args []string) {
		store := token.NewFileStore(tokenStorePath())
		if _, ok := store.Get(); ok {
			fmt.Println("A token is stored.")
		} else {
			fmt.Println("No token stored. Lookups will run unauthenticated.")
		}
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd, tokenStatusCmd)
	rootCmd.AddCommand(tokenCmd)
}
