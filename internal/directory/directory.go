// Package directory turns raw driver-session rows into the ordered,
// deduplicated driver list shown to the user, and owns the load lifecycle.
package directory

import (
	"slices"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jwulff/f1grid/internal/openf1"
)

// Directory is the deduplicated driver list, unique by driver number and
// ordered by team name. A Directory is never modified after it is built;
// a new load replaces it wholesale.
type Directory []openf1.Driver

// Build keeps the first row seen for each driver number and sorts the
// survivors by team name using the collation rules of locale. Equal team
// names keep their input order. records is not modified.
func Build(records []openf1.Driver, locale language.Tag) Directory {
	unique := lo.UniqBy(records, func(d openf1.Driver) int {
		return d.DriverNumber
	})

	c := collate.New(locale)
	slices.SortStableFunc(unique, func(a, b openf1.Driver) int {
		return c.CompareString(a.TeamName, b.TeamName)
	})
	return Directory(unique)
}

// Find returns the driver with the given number.
func (d Directory) Find(number int) (openf1.Driver, bool) {
	return lo.Find(d, func(drv openf1.Driver) bool {
		return drv.DriverNumber == number
	})
}

// Teams returns the distinct team names in directory order.
func (d Directory) Teams() []string {
	return lo.Uniq(lo.Map(d, func(drv openf1.Driver, _ int) string {
		return drv.TeamName
	}))
}
