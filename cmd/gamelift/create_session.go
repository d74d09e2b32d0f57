package uectl

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["gamelift-create-session"] = gameliftCreateSession
	lib.Args["gamelift-create-session"] = gameliftCreateSessionArgs{}
}

type gameliftCreateSessionArgs struct {
	FleetID    string   `arg:"positional,required"`
	Location   string   `arg:"-l,--location" default:"custom-dev-location"`
	Name       string   `arg:"-n,--name" help:"session name, random when empty"`
	MaxPlayers int      `arg:"-m,--max-players" default:"16"`
	Properties []string `arg:"--prop,separate" help:"game property k=v, repeatable"`
}

func (gameliftCreateSessionArgs) Description() string {
	return "\ncreate a game session, wait for ACTIVE, print the connect address\n"
}

func gameliftCreateSession() {
	var args gameliftCreateSessionArgs
	arg.MustParse(&args)
	ctx := context.Background()
	props := make(map[string]string)
	for _, prop := range args.Properties {
		k, v, ok := strings.Cut(prop, "=")
		if !ok {
			lib.Logger.Fatal("error: properties are k=v, got: ", prop)
		}
		props[k] = v
	}
	session, err := lib.GameliftCreateGameSession(ctx, args.FleetID, args.Location, args.Name, args.MaxPlayers, props)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Printf("%s:%d\n", session.IpAddress, session.Port)
	lib.Logger.Println("session:", session.SessionID)
}
