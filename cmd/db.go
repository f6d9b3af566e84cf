package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the immodash store",
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive sqlite3 shell on the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := utils.GetAbsStorePath(viper.GetString("store.path"))
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("store file not found: %s", dbPath)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		// Print schema first
		fmt.Println("--> Store schema:")
		schemaCmd := exec.Command(sqlitePath, dbPath, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, dbPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Lists the keys present in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(viper.GetString("store.path"))
		if err != nil {
			return err
		}
		defer db.Close()

		keys, err := db.Keys(cmd.Context())
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints the size and last update of every key in the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(viper.GetString("store.path"))
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Printf("The store at %s is empty.\n", db.Path())
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "KEY\tBYTES\tUPDATED\t")

		var total int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%s\t\n", s.Key, s.Bytes, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
			total += s.Bytes
		}

		fmt.Fprintln(w, " \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t \t\n", total)

		w.Flush()
		fmt.Printf("\nStore: %s\n", db.Path())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(keysCmd)
	dbCmd.AddCommand(statsCmd)
}
