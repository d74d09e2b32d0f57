package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["gamelift-register-compute"] = gameliftRegisterCompute
	lib.Args["gamelift-register-compute"] = gameliftRegisterComputeArgs{}
}

type gameliftRegisterComputeArgs struct {
	FleetID  string `arg:"positional,required"`
	Compute  string `arg:"positional,required" help:"compute name, usually the hostname"`
	Ip       string `arg:"positional,required" help:"reachable ip of the host"`
	Location string `arg:"-l,--location" default:"custom-dev-location"`
}

func (gameliftRegisterComputeArgs) Description() string {
	return "\nregister a host as anywhere fleet capacity, print the sdk endpoint\n"
}

func gameliftRegisterCompute() {
	var args gameliftRegisterComputeArgs
	arg.MustParse(&args)
	ctx := context.Background()
	endpoint, err := lib.GameliftRegisterCompute(ctx, args.FleetID, args.Compute, args.Ip, args.Location)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(endpoint)
}
