package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["installer-distribute"] = installerDistribute
	lib.Args["installer-distribute"] = installerDistributeArgs{}
}

type installerDistributeArgs struct {
	Bucket      string   `arg:"positional,required"`
	InstanceIDs []string `arg:"positional,required"`
	Manifest    string   `arg:"-m,--manifest" default:"installers.yaml"`
	Concurrency int      `arg:"-c,--concurrency" default:"4"`
}

func (installerDistributeArgs) Description() string {
	return "\ndownload and run manifest installers on instances via ssm\n"
}

func installerDistribute() {
	var args installerDistributeArgs
	arg.MustParse(&args)
	ctx := context.Background()
	manifest, err := lib.InstallerReadManifest(args.Manifest)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	states, err := lib.InstallerDistribute(ctx, args.Bucket, manifest, args.InstanceIDs, args.Concurrency)
	for instanceID, state := range states {
		for name, entry := range state.Installers {
			line := fmt.Sprintf("%s %s: %s", instanceID, name, entry.Status)
			if entry.Status == "done" {
				fmt.Println(lib.Green(line))
			} else {
				fmt.Println(lib.Red(line), entry.Error)
			}
		}
	}
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
