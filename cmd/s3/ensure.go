package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["s3-ensure"] = s3Ensure
	lib.Args["s3-ensure"] = s3EnsureArgs{}
}

type s3EnsureArgs struct {
	Bucket  string `arg:"positional,required"`
	Preview bool   `arg:"-p,--preview" default:"false"`
}

func (s3EnsureArgs) Description() string {
	return "\nensure a private encrypted bucket\n"
}

func s3Ensure() {
	var args s3EnsureArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.S3EnsureBucket(ctx, args.Bucket, args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
