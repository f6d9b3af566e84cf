package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Change the unlock PIN or the display theme",
}

var settingsPINCmd = &cobra.Command{
	Use:   "pin [new-pin]",
	Short: "Set the dashboard PIN (4 to 8 digits); omit it to remove the PIN",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if len(args) == 0 {
			if err := ctrl.ClearPIN(cmd.Context(), current); err != nil {
				return err
			}
			fmt.Println("PIN supprimé.")
			return nil
		}
		if err := ctrl.SetPIN(cmd.Context(), current, args[0]); err != nil {
			return err
		}
		fmt.Println("PIN enregistré.")
		return nil
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:   "theme <light|dark>",
	Short: "Set the dashboard theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		theme, err := ctrl.SetTheme(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Thème : %s\n", theme)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsPINCmd, settingsThemeCmd)
	settingsPINCmd.Flags().String("current", "", "Current PIN, required when one is already set")
}
