package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tutorkit/lessonbook/cmd/config"
)

func NewTypesCmd(app **config.App, student *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Manage the student's content types",
		Long: `Manage the content type registry. Types carry a short key used in
manifest buckets and a display label. A type with entries still filed
under it cannot be removed.`,
	}

	cmd.AddCommand(newTypesListCmd(app, student))
	cmd.AddCommand(newTypesAddCmd(app, student))
	cmd.AddCommand(newTypesRmCmd(app, student))

	return cmd
}

func newTypesListCmd(app **config.App, student *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List content types with usage counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := (*app).Controller(*student)
			if err != nil {
				return err
			}
			m := ctrl.Manifest()

			keys := make([]string, 0, len(m.Types))
			for k := range m.Types {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tLABEL\tIN USE")
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\t%d\n", k, m.Types[k], m.UsageCount(k))
			}
			return w.Flush()
		},
	}
}

func newTypesAddCmd(app **config.App, student *string) *cobra.Command {
	var addLabel string

	cmd := &cobra.Command{
		Use:   "add <key>",
		Short: "Add a content type, or relabel an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := (*app).Controller(*student)
			if err != nil {
				return err
			}
			key := args[0]
			if err := ctrl.DefineType(key, addLabel); err != nil {
				return err
			}
			fmt.Printf("Type %q is now %q\n", key, ctrl.Manifest().TypeLabel(key))
			return nil
		},
	}

	cmd.Flags().StringVar(&addLabel, "label", "", "Display label (default: the key itself)")

	return cmd
}

func newTypesRmCmd(app **config.App, student *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "Remove an unused content type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := (*app).Controller(*student)
			if err != nil {
				return err
			}
			if err := ctrl.DeleteType(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed type %q\n", args[0])
			return nil
		},
	}
}
