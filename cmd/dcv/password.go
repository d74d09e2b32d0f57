package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["dcv-password"] = dcvPassword
	lib.Args["dcv-password"] = dcvPasswordArgs{}
}

type dcvPasswordArgs struct {
	InstanceID string `arg:"positional,required"`
	User       string `arg:"-u,--user" default:"Administrator"`
}

func (dcvPasswordArgs) Description() string {
	return "\nrotate the session owner password and print it once\n"
}

func dcvPassword() {
	var args dcvPasswordArgs
	arg.MustParse(&args)
	ctx := context.Background()
	password, err := lib.DCVPassword(ctx, args.InstanceID, args.User)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(password)
}
