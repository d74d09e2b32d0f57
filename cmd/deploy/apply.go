package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["deploy-apply"] = deployApply
	lib.Args["deploy-apply"] = deployApplyArgs{}
}

type deployApplyArgs struct {
	Root        string   `arg:"positional,required" help:"terraform root containing the stage dirs"`
	Stages      []string `arg:"positional" help:"subset of: network compute services, default all in order"`
	AutoApprove bool     `arg:"-y,--auto-approve" default:"false"`
}

func (deployApplyArgs) Description() string {
	return "\nterraform apply the stages in order, stop at the first failure\n"
}

func deployApply() {
	var args deployApplyArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.DeployApply(ctx, args.Root, args.Stages, args.AutoApprove)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
