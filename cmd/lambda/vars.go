package uectl

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["lambda-vars"] = lambdaVars
	lib.Args["lambda-vars"] = lambdaVarsArgs{}
}

type lambdaVarsArgs struct {
	Name string `arg:"positional,required"`
}

func (lambdaVarsArgs) Description() string {
	return "\nprint function environment variables\n"
}

func lambdaVars() {
	var args lambdaVarsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	vars, err := lib.LambdaVars(ctx, args.Name)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	var keys []string
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, vars[k])
	}
}
