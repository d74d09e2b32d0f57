package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["gamelift-rm-fleet"] = gameliftRmFleet
	lib.Args["gamelift-rm-fleet"] = gameliftRmFleetArgs{}
}

type gameliftRmFleetArgs struct {
	FleetID string `arg:"positional,required"`
}

func (gameliftRmFleetArgs) Description() string {
	return "\ndelete a fleet, refusing while computes are registered\n"
}

func gameliftRmFleet() {
	var args gameliftRmFleetArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.GameliftDeleteFleet(ctx, args.FleetID)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
