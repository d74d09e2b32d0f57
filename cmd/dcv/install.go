package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["dcv-install"] = dcvInstall
	lib.Args["dcv-install"] = dcvInstallArgs{}
}

type dcvInstallArgs struct {
	InstanceID string `arg:"positional,required"`
	Version    string `arg:"-v,--version" help:"dcv server build, defaults to the pinned one"`
}

func (dcvInstallArgs) Description() string {
	return "\ninstall and configure the nice dcv server on a windows instance\n"
}

func dcvInstall() {
	var args dcvInstallArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.DCVInstall(ctx, args.InstanceID, args.Version)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	lib.Logger.Println(lib.Green("dcv installed:"), args.InstanceID)
}
