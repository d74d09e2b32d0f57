package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["dcv-status"] = dcvStatus
	lib.Args["dcv-status"] = dcvStatusArgs{}
}

type dcvStatusArgs struct {
	InstanceID string `arg:"positional,required"`
}

func (dcvStatusArgs) Description() string {
	return "\nprint dcv service state, sessions, and whether 8443 is listening\n"
}

func dcvStatus() {
	var args dcvStatusArgs
	arg.MustParse(&args)
	ctx := context.Background()
	status, err := lib.DCVGetStatus(ctx, args.InstanceID)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println("service:", status.Service)
	for _, session := range status.Sessions {
		fmt.Println(session)
	}
	if status.Listening {
		fmt.Println("listening:", lib.Green("8443"))
	} else {
		fmt.Println("listening:", lib.Red("no"))
	}
}
