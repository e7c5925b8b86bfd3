package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tutorkit/lessonbook/cmd"
	"github.com/tutorkit/lessonbook/cmd/config"
)

var (
	app     *config.App
	student string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lessonbook",
		Short: "A per-student curriculum calendar for tutoring content",
		Long: `lessonbook keeps a per-student calendar of curriculum content:
materials, homework, and notes filed under date, course, and type.
Each item is rendered as a standalone HTML document and tracked in a
manifest that is the single source of truth for what exists.`,
		SilenceUsage: true,
	}

	config.AddGlobalFlags(rootCmd)
	rootCmd.PersistentFlags().StringVarP(&student, "student", "s", "", "Student id (default: configured default_student, then most recent)")

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// Runs once before any subcommand.
		config.InitConfig()
		var err error
		app, err = config.InitApp()
		return err
	}
	rootCmd.PersistentPostRun = func(c *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	}

	rootCmd.AddCommand(cmd.NewSaveCmd(&app, &student))
	rootCmd.AddCommand(cmd.NewListCmd(&app, &student))
	rootCmd.AddCommand(cmd.NewEditCmd(&app, &student))
	rootCmd.AddCommand(cmd.NewDeleteCmd(&app, &student))
	rootCmd.AddCommand(cmd.NewShowCmd(&app, &student))
	rootCmd.AddCommand(cmd.NewTypesCmd(&app, &student))
	rootCmd.AddCommand(cmd.NewHolidayCmd(&app, &student))
	rootCmd.AddCommand(cmd.NewStudentCmd(&app))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
