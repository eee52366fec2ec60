package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jwulff/f1grid/internal/api"
	"github.com/jwulff/f1grid/internal/directory"
)

func newListCmd(rt *runtime) *cobra.Command {
	var query string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "print the driver directory once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := rt.newLoader().Load(cmd.Context())
			if out.Result == directory.ResultFailed {
				return fmt.Errorf("load drivers (%s): %w", out.Failure, out.Err)
			}

			drivers := directory.Filter(out.Directory, query)
			w := cmd.OutOrStdout()

			if asJSON {
				views := make([]api.DriverView, 0, len(drivers))
				for _, d := range drivers {
					views = append(views, api.NewDriverView(d, rt.cfg.FlagURL))
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}

			if len(drivers) == 0 {
				msg := "no drivers returned for this session"
				if query != "" {
					msg = fmt.Sprintf("no drivers match %q", query)
					if s := directory.Suggest(out.Directory, query); s != "" {
						msg += fmt.Sprintf(", did you mean %q?", s)
					}
				}
				_, err := fmt.Fprintln(w, msg)
				return err
			}

			t := table.New().Headers("#", "DRIVER", "TEAM", "CODE", "COUNTRY")
			for _, d := range drivers {
				t.Row(strconv.Itoa(d.DriverNumber), d.FullName, d.TeamName, d.NameAcronym,
					strings.ToUpper(directory.CountryISO2(d.CountryCode)))
			}
			_, err := fmt.Fprintln(w, t.Render())
			return err
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only drivers whose name or team contains this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
