package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ec2-password"] = ec2Password
	lib.Args["ec2-password"] = ec2PasswordArgs{}
}

type ec2PasswordArgs struct {
	InstanceID string `arg:"positional,required"`
	Key        string `arg:"-k,--key,required" help:"path to the rsa private key the instance launched with"`
}

func (ec2PasswordArgs) Description() string {
	return "\ndecrypt the initial windows administrator password\n"
}

func ec2Password() {
	var args ec2PasswordArgs
	arg.MustParse(&args)
	ctx := context.Background()
	password, err := lib.EC2WindowsPassword(ctx, args.InstanceID, args.Key)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(password)
}
