package uectl

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["lambda-invoke"] = lambdaInvoke
	lib.Args["lambda-invoke"] = lambdaInvokeArgs{}
}

type lambdaInvokeArgs struct {
	Name    string `arg:"positional,required"`
	Payload string `arg:"-d,--data" help:"json payload, or - for stdin"`
}

func (lambdaInvokeArgs) Description() string {
	return "\ninvoke a function and print the response payload\n"
}

func lambdaInvoke() {
	var args lambdaInvokeArgs
	arg.MustParse(&args)
	ctx := context.Background()
	payload := []byte(args.Payload)
	if args.Payload == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		payload = data
	}
	out, err := lib.LambdaInvoke(ctx, args.Name, payload)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(string(out))
}
