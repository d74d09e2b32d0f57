package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["deploy-snapshot"] = deploySnapshot
	lib.Args["deploy-snapshot"] = deploySnapshotArgs{}
}

type deploySnapshotArgs struct {
	Root   string `arg:"positional,required"`
	Prefix string `arg:"-o,--out" default:"deploy-snapshot" help:"writes <prefix>.json .yaml .env"`
}

func (deploySnapshotArgs) Description() string {
	return "\nwrite .env/.json/.yaml snapshots of all stage outputs, diffing the last\n"
}

func deploySnapshot() {
	var args deploySnapshotArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.DeploySnapshot(ctx, args.Root, args.Prefix)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
