package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tutorkit/lessonbook/cmd/config"
	"github.com/tutorkit/lessonbook/pkg/filter"
)

func NewListCmd(app **config.App, student *string) *cobra.Command {
	var (
		listDate  string
		listWeek  bool
		listMonth bool
		listAll   bool
		listPrev  bool
		listNext  bool
		listUnit  string
		listJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the student's calendar entries",
		Long: `List the manifest entries visible through a date window.

With no flags the focus is today, or the latest date carrying entries
if that is later. --week and --month widen the window around the focus
date; --prev and --next shift it by one --unit (day, week, or month).

Examples:
  lessonbook list
  lessonbook list --date 2024-01-03 --week
  lessonbook list --month --next
  lessonbook list --all --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app

			ctrl, err := a.Controller(*student)
			if err != nil {
				return err
			}

			today := time.Now()
			focus := listDate
			if focus == "" && !listAll {
				focus = filter.DefaultFocus(ctrl.Manifest(), today)
			}
			if focus != "" {
				if _, err := filter.ParseDate(focus); err != nil {
					return err
				}
			}

			var f filter.Filter
			switch {
			case listAll:
				f = filter.Day("")
			case listWeek, listMonth:
				anchor, err := filter.ParseDate(focus)
				if err != nil {
					return err
				}
				if listWeek {
					f = filter.Week(anchor)
				} else {
					f = filter.Month(anchor)
				}
			default:
				f = filter.Day(focus)
			}

			if listPrev || listNext {
				unit := filter.Unit(listUnit)
				if listUnit == "" {
					switch {
					case listMonth:
						unit = filter.UnitMonth
					case listWeek:
						unit = filter.UnitWeek
					default:
						unit = filter.UnitDay
					}
				}
				offset := 1
				if listPrev {
					offset = -1
				}
				f, err = f.Shift(unit, offset, focus, today)
				if err != nil {
					return err
				}
			}

			items := ctrl.Entries(f)

			if listJSON {
				out := make([]map[string]any, 0, len(items))
				for _, it := range items {
					out = append(out, map[string]any{
						"date":    it.Date,
						"course":  it.Course,
						"type":    it.Type,
						"title":   it.Entry.Title,
						"path":    it.Entry.Path,
						"holiday": it.Holiday,
					})
				}
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return fmt.Errorf("encode listing: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("Student: %s    View: %s\n", ctrl.Student(), f.String())
			if len(items) == 0 {
				fmt.Println("No entries.")
				return nil
			}

			m := ctrl.Manifest()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tCOURSE\tTYPE\tTITLE\tPATH")
			for _, it := range items {
				date := it.Date
				if it.Holiday {
					date += " *"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					date, m.CourseLabel(it.Course), m.TypeLabel(it.Type), it.Entry.Title, it.Entry.Path)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Println("\n* holiday")
			return nil
		},
	}

	cmd.Flags().StringVar(&listDate, "date", "", "Focus date (YYYY-MM-DD, default: latest activity or today)")
	cmd.Flags().BoolVar(&listWeek, "week", false, "Show the Monday-Sunday week around the focus date")
	cmd.Flags().BoolVar(&listMonth, "month", false, "Show the calendar month around the focus date")
	cmd.Flags().BoolVar(&listAll, "all", false, "Show every entry regardless of date")
	cmd.Flags().BoolVar(&listPrev, "prev", false, "Shift the window back by one unit")
	cmd.Flags().BoolVar(&listNext, "next", false, "Shift the window forward by one unit")
	cmd.Flags().StringVar(&listUnit, "unit", "", "Shift unit: day, week, or month (default: matches the window)")
	cmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	return cmd
}
