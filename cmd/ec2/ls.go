package uectl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alexflint/go-arg"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ec2-ls"] = ec2Ls
	lib.Args["ec2-ls"] = ec2LsArgs{}
}

type ec2LsArgs struct {
	Selectors []string `arg:"positional" help:"instance-id | name | tag=value | ip-address | vpc-id | subnet-id | security-group-id"`
	State     string   `arg:"-s,--state" help:"running | stopped | pending | terminated"`
}

func (ec2LsArgs) Description() string {
	return "\nlist instances\n"
}

func ec2Ls() {
	var args ec2LsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	instances, err := lib.EC2ListInstances(ctx, args.Selectors, ec2types.InstanceStateName(args.State))
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 1, 8, 1, ' ', 0)
	for _, instance := range instances {
		fmt.Fprintln(w, strings.Join([]string{
			lib.EC2NameColored(instance),
			*instance.InstanceId,
			string(instance.InstanceType),
			string(instance.State.Name),
			lib.StringOr(instance.PublicIpAddress, "-"),
			lib.StringOr(instance.PrivateIpAddress, "-"),
			lib.EC2Tags(instance.Tags),
		}, "\t"))
	}
	err = w.Flush()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
