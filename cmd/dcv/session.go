package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["dcv-session"] = dcvSession
	lib.Args["dcv-session"] = dcvSessionArgs{}
}

type dcvSessionArgs struct {
	InstanceID string `arg:"positional,required"`
	Session    string `arg:"-s,--session" default:"console"`
	Owner      string `arg:"-o,--owner" default:"Administrator"`
}

func (dcvSessionArgs) Description() string {
	return "\ncreate the dcv session if it does not exist\n"
}

func dcvSession() {
	var args dcvSessionArgs
	arg.MustParse(&args)
	ctx := context.Background()
	out, err := lib.DCVEnsureSession(ctx, args.InstanceID, args.Session, args.Owner)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(out)
}
