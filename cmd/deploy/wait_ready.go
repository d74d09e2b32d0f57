package uectl

import (
	"context"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["deploy-wait-ready"] = deployWaitReady
	lib.Args["deploy-wait-ready"] = deployWaitReadyArgs{}
}

type deployWaitReadyArgs struct {
	Root    string `arg:"positional,required"`
	Stage   string `arg:"positional" default:"compute"`
	Timeout int    `arg:"-t,--timeout" default:"900" help:"seconds"`
}

func (deployWaitReadyArgs) Description() string {
	return "\nwait for the stage's instances: running, checks passed, ssm online\n"
}

func deployWaitReady() {
	var args deployWaitReadyArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.DeployWaitReady(ctx, args.Root, args.Stage, time.Duration(args.Timeout)*time.Second)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	lib.Logger.Println(lib.Green("ready:"), args.Stage)
}
