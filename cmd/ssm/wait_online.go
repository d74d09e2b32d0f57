package uectl

import (
	"context"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ssm-wait-online"] = ssmWaitOnline
	lib.Args["ssm-wait-online"] = ssmWaitOnlineArgs{}
}

type ssmWaitOnlineArgs struct {
	InstanceIDs []string `arg:"positional,required"`
	Timeout     int      `arg:"-t,--timeout" default:"300" help:"seconds"`
}

func (ssmWaitOnlineArgs) Description() string {
	return "\nwait until the ssm agent on every instance reports online\n"
}

func ssmWaitOnline() {
	var args ssmWaitOnlineArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.SSMWaitOnline(ctx, args.InstanceIDs, time.Duration(args.Timeout)*time.Second)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, id := range args.InstanceIDs {
		lib.Logger.Println(lib.Green("online:"), id)
	}
}
