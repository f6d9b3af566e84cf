package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/immodash/immodash/pkg/goals"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show or update this month's goals",
}

var goalsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show this month's goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		g, err := ctrl.Goals(cmd.Context())
		if err != nil {
			return err
		}
		printGoals(g)
		return nil
	},
}

var goalsSetCmd = &cobra.Command{
	Use:   "set <mandats|courriers|porteAPorte> <value>",
	Short: "Set a counter, or change it by a signed delta with --add",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := goals.ParseField(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid value %q", args[1])
		}

		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		var g goals.Goals
		if add, _ := cmd.Flags().GetBool("add"); add {
			g, err = ctrl.IncrementGoal(cmd.Context(), field, value)
		} else {
			g, err = ctrl.SetGoal(cmd.Context(), field, value)
		}
		if err != nil {
			return err
		}
		printGoals(g)
		return nil
	},
}

var goalsBoitageCmd = &cobra.Command{
	Use:   "validate-boitage",
	Short: "Mark this month's flyer round as done (--undo to clear it)",
	RunE: func(cmd *cobra.Command, args []string) error {
		undo, _ := cmd.Flags().GetBool("undo")
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		g, err := ctrl.ValidateBoitage(cmd.Context(), !undo)
		if err != nil {
			return err
		}
		printGoals(g)
		return nil
	},
}

func printGoals(g goals.Goals) {
	boitage := "non"
	if g.BoitageValidated {
		boitage = "oui"
	}
	fmt.Printf("Objectifs %s\n  Mandats       : %d\n  Courriers     : %d\n  Porte-à-porte : %d\n  Boîtage validé: %s\n",
		g.Month, g.Mandats, g.Courriers, g.PorteAPorte, boitage)
}

func init() {
	rootCmd.AddCommand(goalsCmd)
	goalsCmd.AddCommand(goalsShowCmd, goalsSetCmd, goalsBoitageCmd)
	goalsSetCmd.Flags().Bool("add", false, "Treat value as a delta; the counter never goes below zero")
	goalsBoitageCmd.Flags().Bool("undo", false, "Clear the validation flag")
}
