package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutorkit/lessonbook/cmd/config"
)

func NewHolidayCmd(app **config.App, student *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holiday [date]",
		Short: "Toggle the holiday marking for a date",
		Long: `Toggle the holiday marking for a date. With no date, list the
student's marked holidays. Holidays are display annotations only; they
never block saving content on the date.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := (*app).Controller(*student)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				holidays := ctrl.Manifest().Holidays
				if len(holidays) == 0 {
					fmt.Println("No holidays marked.")
					return nil
				}
				for _, d := range holidays {
					fmt.Println(d)
				}
				return nil
			}

			on, err := ctrl.ToggleHoliday(args[0])
			if err != nil {
				return err
			}
			if on {
				fmt.Printf("%s marked as a holiday\n", args[0])
			} else {
				fmt.Printf("%s is no longer a holiday\n", args[0])
			}
			return nil
		},
	}

	return cmd
}
