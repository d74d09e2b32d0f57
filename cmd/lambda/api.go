package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["lambda-api"] = lambdaApi
	lib.Args["lambda-api"] = lambdaApiArgs{}
}

type lambdaApiArgs struct {
	Name string `arg:"positional,required"`
}

func (lambdaApiArgs) Description() string {
	return "\nensure an http api fronting the function, print the endpoint\n"
}

func lambdaApi() {
	var args lambdaApiArgs
	arg.MustParse(&args)
	ctx := context.Background()
	endpoint, err := lib.LambdaApiEnsure(ctx, args.Name)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(endpoint)
}
