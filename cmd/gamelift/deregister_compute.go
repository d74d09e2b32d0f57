package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["gamelift-deregister-compute"] = gameliftDeregisterCompute
	lib.Args["gamelift-deregister-compute"] = gameliftDeregisterComputeArgs{}
}

type gameliftDeregisterComputeArgs struct {
	FleetID string `arg:"positional,required"`
	Compute string `arg:"positional,required"`
}

func (gameliftDeregisterComputeArgs) Description() string {
	return "\nderegister a compute from a fleet\n"
}

func gameliftDeregisterCompute() {
	var args gameliftDeregisterComputeArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.GameliftDeregisterCompute(ctx, args.FleetID, args.Compute)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
