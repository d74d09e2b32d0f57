package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["s3-rm"] = s3Rm
	lib.Args["s3-rm"] = s3RmArgs{}
}

type s3RmArgs struct {
	Bucket string `arg:"positional,required"`
	Key    string `arg:"positional,required"`
}

func (s3RmArgs) Description() string {
	return "\ndelete an object\n"
}

func s3Rm() {
	var args s3RmArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.S3Rm(ctx, args.Bucket, args.Key)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
