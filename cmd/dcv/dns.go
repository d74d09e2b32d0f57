package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["dcv-dns"] = dcvDns
	lib.Args["dcv-dns"] = dcvDnsArgs{}
}

type dcvDnsArgs struct {
	Name     string `arg:"positional,required" help:"record name, e.g. dev1.example.com"`
	Selector string `arg:"positional,required" help:"instance-id | name | tag=value"`
	Preview  bool   `arg:"-p,--preview" default:"false"`
}

func (dcvDnsArgs) Description() string {
	return "\npoint a route53 record at a running dcv host\n"
}

func dcvDns() {
	var args dcvDnsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	instances, err := lib.EC2ListInstances(ctx, []string{args.Selector}, ec2types.InstanceStateNameRunning)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if len(instances) != 1 {
		lib.Logger.Fatal("error: selector must match exactly one running instance, got ", len(instances))
	}
	ip := lib.StringOr(instances[0].PublicIpAddress, "")
	if ip == "" {
		lib.Logger.Fatal("error: instance has no public ip: ", *instances[0].InstanceId)
	}
	err = lib.DnsUpsertA(ctx, args.Name, ip, args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
