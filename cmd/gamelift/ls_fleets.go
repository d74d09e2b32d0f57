package uectl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["gamelift-ls-fleets"] = gameliftLsFleets
	lib.Args["gamelift-ls-fleets"] = gameliftLsFleetsArgs{}
}

type gameliftLsFleetsArgs struct {
}

func (gameliftLsFleetsArgs) Description() string {
	return "\nlist fleets\n"
}

func gameliftLsFleets() {
	var args gameliftLsFleetsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	ids, err := lib.GameliftListFleets(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 1, 8, 1, ' ', 0)
	for _, id := range ids {
		attrs, err := lib.GameliftDescribeFleet(ctx, id)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		fmt.Fprintln(w, strings.Join([]string{
			lib.StringOr(attrs.Name, "-"),
			id,
			string(attrs.ComputeType),
			string(attrs.Status),
		}, "\t"))
	}
	err = w.Flush()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
