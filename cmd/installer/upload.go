package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["installer-upload"] = installerUpload
	lib.Args["installer-upload"] = installerUploadArgs{}
}

type installerUploadArgs struct {
	Bucket   string `arg:"positional,required"`
	Manifest string `arg:"-m,--manifest" default:"installers.yaml"`
}

func (installerUploadArgs) Description() string {
	return "\nupload manifest installers to s3, skipping unchanged objects\n"
}

func installerUpload() {
	var args installerUploadArgs
	arg.MustParse(&args)
	ctx := context.Background()
	manifest, err := lib.InstallerReadManifest(args.Manifest)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	err = lib.InstallerUpload(ctx, args.Bucket, manifest)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
