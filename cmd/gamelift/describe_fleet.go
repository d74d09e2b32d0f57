package uectl

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["gamelift-describe-fleet"] = gameliftDescribeFleet
	lib.Args["gamelift-describe-fleet"] = gameliftDescribeFleetArgs{}
}

type gameliftDescribeFleetArgs struct {
	FleetID string `arg:"positional,required"`
}

func (gameliftDescribeFleetArgs) Description() string {
	return "\ndescribe a fleet as json\n"
}

func gameliftDescribeFleet() {
	var args gameliftDescribeFleetArgs
	arg.MustParse(&args)
	ctx := context.Background()
	attrs, err := lib.GameliftDescribeFleet(ctx, args.FleetID)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	data, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(string(data))
}
