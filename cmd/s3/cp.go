package uectl

import (
	"context"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["s3-cp"] = s3Cp
	lib.Args["s3-cp"] = s3CpArgs{}
}

type s3CpArgs struct {
	Src string `arg:"positional,required" help:"local path or s3://bucket/key"`
	Dst string `arg:"positional,required" help:"local path or s3://bucket/key"`
}

func (s3CpArgs) Description() string {
	return "\ncopy a file to or from s3\n"
}

func splitS3(url string) (string, string, bool) {
	rest, ok := strings.CutPrefix(url, "s3://")
	if !ok {
		return "", "", false
	}
	bucket, key, _ := strings.Cut(rest, "/")
	return bucket, key, true
}

func s3Cp() {
	var args s3CpArgs
	arg.MustParse(&args)
	ctx := context.Background()
	srcBucket, srcKey, srcRemote := splitS3(args.Src)
	dstBucket, dstKey, dstRemote := splitS3(args.Dst)
	switch {
	case srcRemote && !dstRemote:
		data, err := lib.S3Get(ctx, srcBucket, srcKey)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		err = os.WriteFile(args.Dst, data, 0644)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	case !srcRemote && dstRemote:
		err := lib.S3PutFile(ctx, dstBucket, dstKey, args.Src)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	default:
		lib.Logger.Fatal("error: exactly one side must be s3://")
	}
}
