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
	lib.Commands["ec2-start"] = ec2Start
	lib.Args["ec2-start"] = ec2StartArgs{}
}

type ec2StartArgs struct {
	Selectors []string `arg:"positional,required" help:"instance-id | name | tag=value | ip-address"`
	Wait      bool     `arg:"-w,--wait" default:"false" help:"wait for running with status checks passed"`
}

func (ec2StartArgs) Description() string {
	return "\nstart instances\n"
}

func ec2Start() {
	var args ec2StartArgs
	arg.MustParse(&args)
	ctx := context.Background()
	instances, err := lib.EC2ListInstances(ctx, args.Selectors, ec2types.InstanceStateNameStopped)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if len(instances) == 0 {
		lib.Logger.Fatal("error: ", lib.EC2NoInstancesError(args.Selectors, ec2types.InstanceStateNameStopped))
	}
	var ids []string
	for _, instance := range instances {
		ids = append(ids, *instance.InstanceId)
		lib.Logger.Println("starting:", lib.EC2Name(instance.Tags), *instance.InstanceId)
	}
	_, err = lib.EC2Client().StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: ids,
	})
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if args.Wait {
		err = lib.EC2WaitStatusOk(ctx, ids, 15*time.Minute)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
}
