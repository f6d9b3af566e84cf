package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/prospection"
)

var prospectCmd = &cobra.Command{
	Use:   "prospect",
	Short: "Manage the prospecting log",
}

var prospectLogCmd = &cobra.Command{
	Use:   "log <message>",
	Short: "Log, delete or reset through a free-text message (e.g. \"[ADD] 12 rue Foch boitage\")",
	Long: `Send a free-text message to the AI model, which answers with an intent that is
then applied to the log. With --zone the model is skipped and the entry is added directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		var res prospection.Result
		if zone, _ := cmd.Flags().GetString("zone"); zone != "" {
			typ, _ := cmd.Flags().GetString("type")
			date, _ := cmd.Flags().GetString("date")
			res, err = ctrl.ApplyIntent(cmd.Context(), prospection.Intent{
				Kind: prospection.IntentLog,
				Data: prospection.LogData{Zone: zone, Type: typ, Date: date},
			})
		} else {
			res, err = ctrl.Prospect(cmd.Context(), strings.Join(args, " "))
		}
		if err != nil {
			return reportError(err)
		}

		switch {
		case res.Added != nil:
			fmt.Printf("Ajouté : %s (%s) le %s, %s\n", res.Added.Zone, res.Added.Type, res.Added.Date, res.Added.Mois)
		case res.Kind == prospection.IntentReset:
			fmt.Printf("Campagne réinitialisée (%d entrées supprimées)\n", res.Removed)
		case res.Kind == prospection.IntentDelete:
			fmt.Printf("%d entrée(s) supprimée(s)\n", res.Removed)
		case res.Message != "":
			fmt.Println(res.Message)
		default:
			fmt.Println("Aucune modification.")
		}
		return nil
	},
}

var prospectListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the log grouped by month and action type",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		entries := ctrl.Snapshot().Prospection
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd, entries)
		}
		printGroups(entries)
		return nil
	},
}

var prospectSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find entries whose zone contains the query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		found := prospection.Search(ctrl.Snapshot().Prospection, strings.Join(args, " "))
		if len(found) == 0 {
			fmt.Println("Aucun résultat.")
			return nil
		}
		printEntries(found)
		return nil
	},
}

var prospectColdCmd = &cobra.Command{
	Use:   "cold",
	Short: "List zones not visited for 120 days or more",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		cold := prospection.ColdZones(ctrl.Snapshot().Prospection, ctrl.Now())
		if len(cold) == 0 {
			fmt.Println("Aucune zone froide.")
			return nil
		}
		printEntries(cold)
		return nil
	},
}

var prospectStartMonthCmd = &cobra.Command{
	Use:   "start-month",
	Short: "Open the current month in the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		created, err := ctrl.StartMonth(cmd.Context())
		if err != nil {
			return err
		}
		label := prospection.MonthLabel(ctrl.Now())
		if created {
			fmt.Printf("Mois %s démarré.\n", label)
		} else {
			fmt.Printf("Le mois %s est déjà démarré.\n", label)
		}
		return nil
	},
}

var prospectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one entry by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ok := confirmAction(cmd, fmt.Sprintf("Supprimer l'entrée %d ?", id))
		return ctrl.DeleteItem(cmd.Context(), id, ok)
	},
}

var prospectDeleteMonthCmd = &cobra.Command{
	Use:   "delete-month <label>",
	Short: "Delete every entry of a month (e.g. \"Janvier 2024\"), keeping the month open",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := strings.Join(args, " ")
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ok := confirmAction(cmd, fmt.Sprintf("Supprimer toutes les entrées de %s ?", label))
		removed, err := ctrl.DeleteMonth(cmd.Context(), label, ok)
		if err != nil {
			return err
		}
		fmt.Printf("%d entrée(s) supprimée(s)\n", removed)
		return nil
	},
}

var prospectResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the active log without archiving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ok := confirmAction(cmd, "Effacer toute la campagne en cours sans l'archiver ?")
		return ctrl.ResetCampaign(cmd.Context(), ok)
	},
}

var prospectArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive the active log and start a new campaign",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ok := confirmAction(cmd, "Archiver la campagne en cours et repartir de zéro ?")
		archive, err := ctrl.ArchiveAndReset(cmd.Context(), ok)
		if err != nil {
			return err
		}
		fmt.Printf("Campagne archivée : %d entrées.\n", len(archive.Data))
		return nil
	},
}

var prospectArchivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "List archived campaigns, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		archives := ctrl.Snapshot().Archives
		if len(archives) == 0 {
			fmt.Println("Aucune archive.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "INDEX\tARCHIVED AT\tENTRIES\t")
		for i, a := range archives {
			fmt.Fprintf(w, "%d\t%s\t%d\t\n", i, a.ArchivedAt.Local().Format("2006-01-02 15:04"), len(a.Data))
		}
		return w.Flush()
	},
}

var prospectDeleteArchiveCmd = &cobra.Command{
	Use:   "delete-archive <index>",
	Short: "Delete an archived campaign by index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		ctrl, db, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ok := confirmAction(cmd, fmt.Sprintf("Supprimer l'archive %d ?", index))
		return ctrl.DeleteArchive(cmd.Context(), index, ok)
	},
}

func printGroups(entries []prospection.Entry) {
	groups := prospection.Group(entries)
	if len(groups) == 0 {
		fmt.Println("Aucune action enregistrée.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(w, "== %s (%d)\n", g.Label, g.Count())
		if g.Empty {
			fmt.Fprintln(w, "   (vide)")
			continue
		}
		for _, t := range prospection.ActionTypes {
			for _, e := range g.Buckets[t] {
				fmt.Fprintf(w, "   %d\t%s\t%s\t%s\t\n", e.ID, t, e.Date, e.Zone)
			}
		}
	}
	w.Flush()

	counts := prospection.Counts(entries)
	fmt.Printf("\nTotal : %d boîtage, %d porte-à-porte, %d courrier\n",
		counts[prospection.Boitage], counts[prospection.PorteAPorte], counts[prospection.Courrier])
}

func printEntries(entries []prospection.Entry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tDATE\tMONTH\tZONE\t")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n", e.ID, e.Type, e.Date, e.Mois, utils.Truncate(e.Zone, 60))
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(prospectCmd)
	prospectCmd.AddCommand(
		prospectLogCmd,
		prospectListCmd,
		prospectSearchCmd,
		prospectColdCmd,
		prospectStartMonthCmd,
		prospectDeleteCmd,
		prospectDeleteMonthCmd,
		prospectResetCmd,
		prospectArchiveCmd,
		prospectArchivesCmd,
		prospectDeleteArchiveCmd,
	)

	prospectCmd.PersistentFlags().BoolP("yes", "y", false, "Skip the confirmation prompt of destructive commands")
	prospectLogCmd.Flags().String("zone", "", "Add this zone directly, without calling the AI model")
	prospectLogCmd.Flags().String("type", "", "Action type with --zone: boitage, porte_a_porte or courrier")
	prospectLogCmd.Flags().String("date", "", "Date with --zone (YYYY-MM-DD, default today)")
	prospectListCmd.Flags().Bool("json", false, "Print the raw log as JSON")
}
