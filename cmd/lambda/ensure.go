package uectl

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["lambda-ensure"] = lambdaEnsure
	lib.Args["lambda-ensure"] = lambdaEnsureArgs{}
}

type lambdaEnsureArgs struct {
	Name string   `arg:"positional,required"`
	Dir  string   `arg:"positional,required" help:"dir with the built bootstrap binary"`
	Env  []string `arg:"-e,--env,separate" help:"environment k=v, repeatable"`
}

func (lambdaEnsureArgs) Description() string {
	return "\nzip a built handler dir and create or update the function\n"
}

func lambdaEnsure() {
	var args lambdaEnsureArgs
	arg.MustParse(&args)
	ctx := context.Background()
	env := make(map[string]string)
	for _, kv := range args.Env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			lib.Logger.Fatal("error: env is k=v, got: ", kv)
		}
		env[k] = v
	}
	arn, err := lib.LambdaEnsure(ctx, args.Name, args.Dir, env)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(arn)
}
