package uectl

import (
	"context"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ec2-stop"] = ec2Stop
	lib.Args["ec2-stop"] = ec2StopArgs{}
}

type ec2StopArgs struct {
	Selectors []string `arg:"positional,required" help:"instance-id | name | tag=value | ip-address"`
	Wait      bool     `arg:"-w,--wait" default:"false"`
}

func (ec2StopArgs) Description() string {
	return "\nstop instances\n"
}

func ec2Stop() {
	var args ec2StopArgs
	arg.MustParse(&args)
	ctx := context.Background()
	instances, err := lib.EC2ListInstances(ctx, args.Selectors, ec2types.InstanceStateNameRunning)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if len(instances) == 0 {
		lib.Logger.Fatal("error: ", lib.EC2NoInstancesError(args.Selectors, ec2types.InstanceStateNameRunning))
	}
	var ids []string
	for _, instance := range instances {
		ids = append(ids, *instance.InstanceId)
		lib.Logger.Println("stopping:", lib.EC2Name(instance.Tags), *instance.InstanceId)
	}
	_, err = lib.EC2Client().StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: ids,
	})
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if args.Wait {
		err = lib.EC2WaitState(ctx, ids, ec2types.InstanceStateNameStopped, 10*time.Minute)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
}
