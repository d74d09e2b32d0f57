package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["lambda-url"] = lambdaUrl
	lib.Args["lambda-url"] = lambdaUrlArgs{}
}

type lambdaUrlArgs struct {
	Name string `arg:"positional,required"`
}

func (lambdaUrlArgs) Description() string {
	return "\nprint the http api endpoint of a function\n"
}

func lambdaUrl() {
	var args lambdaUrlArgs
	arg.MustParse(&args)
	ctx := context.Background()
	url, err := lib.LambdaApiUrl(ctx, args.Name)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(url)
}
