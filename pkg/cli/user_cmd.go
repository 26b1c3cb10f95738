package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"grocery-graph/internal/db/repository"
	"grocery-graph/internal/domain"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserListCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var (
		email string
		name  string
		role  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account and its graph counterpart",
		Example: `  # Create the first admin
  groceryctl user create --email admin@example.com --name "Site Admin" --role ADMIN

  # Create a supplier
  groceryctl user create --email sam@example.com --name "Sam" --role SUPPLIER`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := domain.CreateUserRequest{Email: email, Name: name, Role: role}
			if err := req.Validate(); err != nil {
				return err
			}

			writeDB, _, cleanup, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			users := repository.NewUserRepo(writeDB)
			graph := repository.NewGraphRepo(writeDB)

			u, err := users.Create(cmd.Context(), &domain.User{
				Email:  req.Email,
				Name:   req.Name,
				Role:   req.Role,
				Active: true,
			})
			if err != nil {
				return fmt.Errorf("create account: %w", err)
			}
			if _, err := graph.MergeUserNode(cmd.Context(), u.ExternalID(), map[string]any{
				"name":  u.Name,
				"email": u.Email,
				"role":  u.Role,
			}); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: counterpart sync failed: %v\n", err)
			}

			return printJSON(cmd.OutOrStdout(), u)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (login identity)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", domain.RoleSupplier, "Role: ADMIN or SUPPLIER")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, readDB, cleanup, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			users, err := repository.NewUserRepo(readDB).List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
