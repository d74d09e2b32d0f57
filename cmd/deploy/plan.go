package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["deploy-plan"] = deployPlan
	lib.Args["deploy-plan"] = deployPlanArgs{}
}

type deployPlanArgs struct {
	Root   string   `arg:"positional,required"`
	Stages []string `arg:"positional"`
}

func (deployPlanArgs) Description() string {
	return "\nterraform plan the stages in order\n"
}

func deployPlan() {
	var args deployPlanArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.DeployPlan(ctx, args.Root, args.Stages)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
