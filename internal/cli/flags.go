package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"timesheet/internal/api"
	"timesheet/internal/domain"
)

// dateValue is a YYYY-MM-DD flag
type dateValue struct {
	d *domain.Date
}

var _ pflag.Value = dateValue{}

func (v dateValue) String() string {
	if v.d == nil || v.d.IsZero() {
		return ""
	}
	return v.d.String()
}

func (v dateValue) Set(s string) error {
	d, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	*v.d = d
	return nil
}

func (v dateValue) Type() string {
	return "date"
}

// clockValue is an HH:MM flag
type clockValue struct {
	c *domain.Clock
}

var _ pflag.Value = clockValue{}

func (v clockValue) String() string {
	if v.c == nil {
		return ""
	}
	return v.c.String()
}

func (v clockValue) Set(s string) error {
	c, err := domain.ParseClock(s)
	if err != nil {
		return err
	}
	*v.c = c
	return nil
}

func (v clockValue) Type() string {
	return "clock"
}

func dateVar(fs *pflag.FlagSet, p *domain.Date, name, usage string) {
	fs.Var(dateValue{d: p}, name, usage)
}

func clockVar(fs *pflag.FlagSet, p *domain.Clock, name, usage string) {
	fs.Var(clockValue{c: p}, name, usage)
}

// rangeFlags is the --from/--to pair shared by range reports and exports
type rangeFlags struct {
	from domain.Date
	to   domain.Date
}

func (rf *rangeFlags) register(cmd *cobra.Command) {
	dateVar(cmd.Flags(), &rf.from, "from", "first day of the range (YYYY-MM-DD)")
	dateVar(cmd.Flags(), &rf.to, "to", "last day of the range (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

func (rf *rangeFlags) dateRange() domain.DateRange {
	return domain.DateRange{Start: rf.from, End: rf.to}
}

// dateOrToday returns the --name flag value, or today when it was not given
func dateOrToday(ctx context.Context, cmd *cobra.Command, b api.BusinessAPI, name string, d domain.Date) (domain.Date, error) {
	if cmd.Flags().Changed(name) {
		return d, nil
	}
	return b.Today(ctx)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
