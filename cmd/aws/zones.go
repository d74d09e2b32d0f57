package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["aws-zones"] = awsZones
	lib.Args["aws-zones"] = awsZonesArgs{}
}

type awsZonesArgs struct {
}

func (awsZonesArgs) Description() string {
	return "\nlist availability zones in the current region\n"
}

func awsZones() {
	var args awsZonesArgs
	arg.MustParse(&args)
	ctx := context.Background()
	zones, err := lib.Zones(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, zone := range zones {
		fmt.Println(*zone.ZoneName, zone.State)
	}
}
