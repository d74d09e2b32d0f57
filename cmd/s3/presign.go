package uectl

import (
	"context"
	"fmt"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["s3-presign"] = s3Presign
	lib.Args["s3-presign"] = s3PresignArgs{}
}

type s3PresignArgs struct {
	Bucket string `arg:"positional,required"`
	Key    string `arg:"positional,required"`
	Expire int    `arg:"-e,--expire" default:"3600" help:"seconds"`
}

func (s3PresignArgs) Description() string {
	return "\nprint a presigned GET url\n"
}

func s3Presign() {
	var args s3PresignArgs
	arg.MustParse(&args)
	ctx := context.Background()
	url, err := lib.S3Presign(ctx, args.Bucket, args.Key, time.Duration(args.Expire)*time.Second)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(url)
}
