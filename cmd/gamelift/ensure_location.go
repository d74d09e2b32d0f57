package uectl

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["gamelift-ensure-location"] = gameliftEnsureLocation
	lib.Args["gamelift-ensure-location"] = gameliftEnsureLocationArgs{}
}

type gameliftEnsureLocationArgs struct {
	Name    string `arg:"positional,required" help:"must be custom-*"`
	Preview bool   `arg:"-p,--preview" default:"false"`
}

func (gameliftEnsureLocationArgs) Description() string {
	return "\nensure a custom anywhere location\n"
}

func gameliftEnsureLocation() {
	var args gameliftEnsureLocationArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.GameliftEnsureLocation(ctx, args.Name, args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
