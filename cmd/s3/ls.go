package uectl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["s3-ls"] = s3Ls
	lib.Args["s3-ls"] = s3LsArgs{}
}

type s3LsArgs struct {
	Bucket string `arg:"positional,required"`
	Prefix string `arg:"positional"`
}

func (s3LsArgs) Description() string {
	return "\nlist objects\n"
}

func s3Ls() {
	var args s3LsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	objects, err := lib.S3Ls(ctx, args.Bucket, args.Prefix)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 1, 8, 1, ' ', 0)
	for _, object := range objects {
		size := "-"
		if object.Size != nil {
			size = humanize.Bytes(uint64(*object.Size))
		}
		fmt.Fprintln(w, strings.Join([]string{
			object.LastModified.UTC().Format("2006-01-02T15:04:05Z"),
			size,
			*object.Key,
		}, "\t"))
	}
	err = w.Flush()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
