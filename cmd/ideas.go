package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Manage the idea box",
}

var ideasAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Add a note to the idea box",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		idea, err := ctrl.AddIdea(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Idée %s ajoutée.\n", idea.ID)
		return nil
	},
}

var ideasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the idea box",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		list := ctrl.Snapshot().Ideas
		if len(list) == 0 {
			fmt.Println("La boîte à idées est vide.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tCONTENT\t")
		for _, idea := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", idea.ID, idea.CreatedAt.Local().Format("2006-01-02"), idea.Content)
		}
		return w.Flush()
	},
}

var ideasDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a note from the idea box",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		return ctrl.DeleteIdea(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(ideasCmd)
	ideasCmd.AddCommand(ideasAddCmd, ideasListCmd, ideasDeleteCmd)
}
