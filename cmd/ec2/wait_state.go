package uectl

import (
	"context"
	"time"

	"github.com/alexflint/go-arg"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ec2-wait-state"] = ec2WaitState
	lib.Args["ec2-wait-state"] = ec2WaitStateArgs{}
}

type ec2WaitStateArgs struct {
	State     string   `arg:"positional,required" help:"running | stopped"`
	Selectors []string `arg:"positional,required" help:"instance-id | name | tag=value | ip-address"`
	Timeout   int      `arg:"-t,--timeout" default:"600" help:"seconds"`
	StatusOk  bool     `arg:"--status-ok" default:"false" help:"additionally wait for both status checks"`
}

func (ec2WaitStateArgs) Description() string {
	return "\nwait for instances to reach a state\n"
}

func ec2WaitState() {
	var args ec2WaitStateArgs
	arg.MustParse(&args)
	ctx := context.Background()
	instances, err := lib.EC2ListInstances(ctx, args.Selectors, "")
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if len(instances) == 0 {
		lib.Logger.Fatal("error: ", lib.EC2NoInstancesError(args.Selectors, ""))
	}
	var ids []string
	for _, instance := range instances {
		ids = append(ids, *instance.InstanceId)
	}
	timeout := time.Duration(args.Timeout) * time.Second
	if args.StatusOk {
		err = lib.EC2WaitStatusOk(ctx, ids, timeout)
	} else {
		err = lib.EC2WaitState(ctx, ids, ec2types.InstanceStateName(args.State), timeout)
	}
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, id := range ids {
		lib.Logger.Println(lib.Green("ready:"), id)
	}
}
