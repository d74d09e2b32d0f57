package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["installer-status"] = installerStatus
	lib.Args["installer-status"] = installerStatusArgs{}
}

type installerStatusArgs struct {
	InstanceID string `arg:"positional,required"`
}

func (installerStatusArgs) Description() string {
	return "\nfetch download_state.json from an instance\n"
}

func installerStatus() {
	var args installerStatusArgs
	arg.MustParse(&args)
	ctx := context.Background()
	state, err := lib.InstallerStatus(ctx, args.InstanceID)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println("updated:", state.Updated)
	for name, entry := range state.Installers {
		if entry.Status == "done" {
			fmt.Println(lib.Green(name+":"), entry.Status)
		} else {
			fmt.Println(lib.Red(name+":"), entry.Status, entry.Error)
		}
	}
}
