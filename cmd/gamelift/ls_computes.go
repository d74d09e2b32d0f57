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
	lib.Commands["gamelift-ls-computes"] = gameliftLsComputes
	lib.Args["gamelift-ls-computes"] = gameliftLsComputesArgs{}
}

type gameliftLsComputesArgs struct {
	FleetID string `arg:"positional,required"`
}

func (gameliftLsComputesArgs) Description() string {
	return "\nlist computes registered on a fleet\n"
}

func gameliftLsComputes() {
	var args gameliftLsComputesArgs
	arg.MustParse(&args)
	ctx := context.Background()
	computes, err := lib.GameliftListComputes(ctx, args.FleetID)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 1, 8, 1, ' ', 0)
	for _, compute := range computes {
		fmt.Fprintln(w, strings.Join([]string{
			lib.StringOr(compute.ComputeName, "-"),
			lib.StringOr(compute.IpAddress, "-"),
			string(compute.ComputeStatus),
			lib.StringOr(compute.Location, "-"),
		}, "\t"))
	}
	err = w.Flush()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
