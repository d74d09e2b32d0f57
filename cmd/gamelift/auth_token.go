package uectl

import (
	"context"
	"fmt"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["gamelift-auth-token"] = gameliftAuthToken
	lib.Args["gamelift-auth-token"] = gameliftAuthTokenArgs{}
}

type gameliftAuthTokenArgs struct {
	FleetID string `arg:"positional,required"`
	Compute string `arg:"positional,required"`
}

func (gameliftAuthTokenArgs) Description() string {
	return "\nget the compute auth token the server process starts with\n"
}

func gameliftAuthToken() {
	var args gameliftAuthTokenArgs
	arg.MustParse(&args)
	ctx := context.Background()
	token, err := lib.GameliftComputeAuthToken(ctx, args.FleetID, args.Compute)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(token.Token)
	lib.Logger.Println("expires:", token.Expiration.UTC().Format(time.RFC3339), "in:", time.Until(token.Expiration).Round(time.Second))
}
