package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ec2-reboot"] = ec2Reboot
	lib.Args["ec2-reboot"] = ec2RebootArgs{}
}

type ec2RebootArgs struct {
	Selectors []string `arg:"positional,required" help:"instance-id | name | tag=value | ip-address"`
}

func (ec2RebootArgs) Description() string {
	return "\nreboot instances\n"
}

func ec2Reboot() {
	var args ec2RebootArgs
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
		lib.Logger.Println("rebooting:", lib.EC2Name(instance.Tags), *instance.InstanceId)
	}
	_, err = lib.EC2Client().RebootInstances(ctx, &ec2.RebootInstancesInput{
		InstanceIds: ids,
	})
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
