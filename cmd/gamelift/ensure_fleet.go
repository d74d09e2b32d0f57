package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["gamelift-ensure-fleet"] = gameliftEnsureFleet
	lib.Args["gamelift-ensure-fleet"] = gameliftEnsureFleetArgs{}
}

type gameliftEnsureFleetArgs struct {
	Name     string `arg:"positional,required"`
	Location string `arg:"-l,--location" default:"custom-dev-location" help:"anywhere location, must be custom-*"`
	Preview  bool   `arg:"-p,--preview" default:"false"`
}

func (gameliftEnsureFleetArgs) Description() string {
	return "\nensure an anywhere fleet with its custom location, wait for ACTIVE\n"
}

func gameliftEnsureFleet() {
	var args gameliftEnsureFleetArgs
	arg.MustParse(&args)
	ctx := context.Background()
	fleetID, err := lib.GameliftEnsureFleet(ctx, args.Name, args.Location, args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(fleetID)
}
