package uectl

import (
	"os"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
	"gopkg.in/yaml.v3"
)

func init() {
	lib.Commands["installer-pin"] = installerPin
	lib.Args["installer-pin"] = installerPinArgs{}
}

type installerPinArgs struct {
	Manifest string `arg:"-m,--manifest" default:"installers.yaml"`
}

func (installerPinArgs) Description() string {
	return "\nfill missing sha256 pins in the manifest from local sources\n"
}

func installerPin() {
	var args installerPinArgs
	arg.MustParse(&args)
	manifest, err := lib.InstallerReadManifest(args.Manifest)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	err = lib.InstallerManifestSha256(manifest)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	data, err := yaml.Marshal(manifest)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	err = os.WriteFile(args.Manifest, data, 0644)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	lib.Logger.Println("pinned:", args.Manifest)
}
