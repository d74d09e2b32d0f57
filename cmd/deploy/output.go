package uectl

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["deploy-output"] = deployOutput
	lib.Args["deploy-output"] = deployOutputArgs{}
}

type deployOutputArgs struct {
	Root  string `arg:"positional,required"`
	Stage string `arg:"positional,required"`
	Name  string `arg:"-n,--name" help:"print just one output value"`
}

func (deployOutputArgs) Description() string {
	return "\nprint a stage's terraform outputs\n"
}

func deployOutput() {
	var args deployOutputArgs
	arg.MustParse(&args)
	ctx := context.Background()
	outputs, err := lib.DeployOutputs(ctx, args.Root, args.Stage)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if args.Name != "" {
		value, ok := outputs[args.Name]
		if !ok {
			lib.Logger.Fatal("error: no output named: ", args.Name)
		}
		fmt.Println(value)
		return
	}
	data, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(string(data))
}
