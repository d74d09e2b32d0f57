package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ec2-ensure-sg"] = ec2EnsureSg
	lib.Args["ec2-ensure-sg"] = ec2EnsureSgArgs{}
}

type ec2EnsureSgArgs struct {
	VpcID   string `arg:"positional,required"`
	Name    string `arg:"positional,required"`
	Cidr    string `arg:"-c,--cidr" default:"0.0.0.0/0" help:"source cidr for rdp and dcv ingress"`
	Preview bool   `arg:"-p,--preview" default:"false"`
}

func (ec2EnsureSgArgs) Description() string {
	return "\nensure the dev host security group: rdp, dcv, and game server ports\n"
}

func ec2EnsureSg() {
	var args ec2EnsureSgArgs
	arg.MustParse(&args)
	ctx := context.Background()
	sgID, err := lib.EC2EnsureSg(ctx, args.VpcID, args.Name, lib.DevHostSgRules(args.Cidr), args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(sgID)
}
