package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ec2-ensure-keypair"] = ec2EnsureKeypair
	lib.Args["ec2-ensure-keypair"] = ec2EnsureKeypairArgs{}
}

type ec2EnsureKeypairArgs struct {
	Name    string `arg:"positional,required"`
	PubKey  string `arg:"positional,required" help:"path to rsa public key"`
	Preview bool   `arg:"-p,--preview" default:"false"`
}

func (ec2EnsureKeypairArgs) Description() string {
	return "\nimport a keypair, replacing it when the fingerprint changed\n"
}

func ec2EnsureKeypair() {
	var args ec2EnsureKeypairArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.EC2EnsureKeypair(ctx, args.Name, args.PubKey, args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
