package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["deploy-destroy"] = deployDestroy
	lib.Args["deploy-destroy"] = deployDestroyArgs{}
}

type deployDestroyArgs struct {
	Root        string   `arg:"positional,required"`
	Stages      []string `arg:"positional"`
	AutoApprove bool     `arg:"-y,--auto-approve" default:"false"`
}

func (deployDestroyArgs) Description() string {
	return "\nterraform destroy the stages in reverse order\n"
}

func deployDestroy() {
	var args deployDestroyArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.DeployDestroy(ctx, args.Root, args.Stages, args.AutoApprove)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
