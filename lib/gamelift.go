package lib

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/gamelift"
	gltypes "github.com/aws/aws-sdk-go-v2/service/gamelift/types"
	"github.com/gofrs/uuid"
)

const (
	gameliftFleetTimeout   = 10 * time.Minute
	gameliftFleetInterval  = 15 * time.Second
	gameliftSessionTimeout = 60 * time.Second
)

var gameliftClient *gamelift.Client
var gameliftClientLock sync.Mutex

func GameliftClient() *gamelift.Client {
	gameliftClientLock.Lock()
	defer gameliftClientLock.Unlock()
	if gameliftClient == nil {
		gameliftClient = gamelift.NewFromConfig(*Session())
	}
	return gameliftClient
}

// GameliftEnsureLocation creates the custom location if missing. Anywhere
// locations must be named custom-*.
func GameliftEnsureLocation(ctx context.Context, name string, preview bool) error {
	if !strings.HasPrefix(name, "custom-") {
		err := fmt.Errorf("anywhere locations must be named custom-*: %s", name)
		Logger.Println("error:", err)
		return err
	}
	var nextToken *string
	for {
		out, err := GameliftClient().ListLocations(ctx, &gamelift.ListLocationsInput{
			Filters:   []gltypes.LocationFilter{gltypes.LocationFilterCustom},
			NextToken: nextToken,
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		for _, location := range out.Locations {
			if StringOr(location.LocationName, "") == name {
				return nil
			}
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	if !preview {
		_, err := GameliftClient().CreateLocation(ctx, &gamelift.CreateLocationInput{
			LocationName: aws.String(name),
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
	}
	Logger.Println(PreviewString(preview)+"created location:", name)
	return nil
}

func GameliftListFleets(ctx context.Context) ([]string, error) {
	var ids []string
	var nextToken *string
	for {
		out, err := GameliftClient().ListFleets(ctx, &gamelift.ListFleetsInput{
			NextToken: nextToken,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		ids = append(ids, out.FleetIds...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return ids, nil
}

func GameliftDescribeFleet(ctx context.Context, fleetID string) (*gltypes.FleetAttributes, error) {
	out, err := GameliftClient().DescribeFleetAttributes(ctx, &gamelift.DescribeFleetAttributesInput{
		FleetIds: []string{fleetID},
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	if len(out.FleetAttributes) == 0 {
		err := fmt.Errorf("fleet not found: %s", fleetID)
		Logger.Println("error:", err)
		return nil, err
	}
	return &out.FleetAttributes[0], nil
}

func gameliftFindFleetByName(ctx context.Context, name string) (*gltypes.FleetAttributes, error) {
	ids, err := GameliftListFleets(ctx)
	if err != nil {
		return nil, err
	}
	for _, chunk := range chunkStrings(ids, 50) {
		out, err := GameliftClient().DescribeFleetAttributes(ctx, &gamelift.DescribeFleetAttributesInput{
			FleetIds: chunk,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		for _, attrs := range out.FleetAttributes {
			if StringOr(attrs.Name, "") == name {
				return &attrs, nil
			}
		}
	}
	return nil, nil
}

func chunkStrings(xs []string, n int) [][]string {
	var chunks [][]string
	for len(xs) > n {
		chunks = append(chunks, xs[:n])
		xs = xs[n:]
	}
	if len(xs) > 0 {
		chunks = append(chunks, xs)
	}
	return chunks
}

// GameliftEnsureFleet finds the anywhere fleet by name or creates it with the
// custom location attached, then polls until ACTIVE.
func GameliftEnsureFleet(ctx context.Context, name, location string, preview bool) (string, error) {
	err := GameliftEnsureLocation(ctx, location, preview)
	if err != nil {
		return "", err
	}
	attrs, err := gameliftFindFleetByName(ctx, name)
	if err != nil {
		return "", err
	}
	var fleetID string
	if attrs != nil {
		fleetID = *attrs.FleetId
		if attrs.Status == gltypes.FleetStatusActive {
			return fleetID, nil
		}
	} else {
		if preview {
			Logger.Println(PreviewString(preview)+"create anywhere fleet:", name, location)
			return "", nil
		}
		out, err := GameliftClient().CreateFleet(ctx, &gamelift.CreateFleetInput{
			Name:        aws.String(name),
			ComputeType: gltypes.ComputeTypeAnywhere,
			Locations: []gltypes.LocationConfiguration{
				{Location: aws.String(location)},
			},
		})
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
		fleetID = *out.FleetAttributes.FleetId
		Logger.Println("created anywhere fleet:", name, fleetID)
	}
	start := time.Now()
	for {
		attrs, err := GameliftDescribeFleet(ctx, fleetID)
		if err != nil {
			return "", err
		}
		switch attrs.Status {
		case gltypes.FleetStatusActive:
			return fleetID, nil
		case gltypes.FleetStatusError, gltypes.FleetStatusTerminated:
			err := fmt.Errorf("fleet %s entered status %s", fleetID, attrs.Status)
			Logger.Println("error:", err)
			return "", err
		}
		if time.Since(start) > gameliftFleetTimeout {
			err := fmt.Errorf("fleet %s still %s after %s", fleetID, attrs.Status, time.Since(start).Round(time.Second))
			Logger.Println("error:", err)
			return "", err
		}
		Logger.Println("fleet", fleetID+":", attrs.Status)
		time.Sleep(gameliftFleetInterval)
	}
}

// GameliftRegisterCompute registers a host as fleet capacity and returns the
// gamelift service sdk websocket endpoint the server process connects to.
func GameliftRegisterCompute(ctx context.Context, fleetID, computeName, ipAddress, location string) (string, error) {
	out, err := GameliftClient().RegisterCompute(ctx, &gamelift.RegisterComputeInput{
		FleetId:     aws.String(fleetID),
		ComputeName: aws.String(computeName),
		IpAddress:   aws.String(ipAddress),
		Location:    aws.String(location),
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	endpoint := StringOr(out.Compute.GameLiftServiceSdkEndpoint, "")
	Logger.Println("registered compute:", computeName, "endpoint:", endpoint)
	return endpoint, nil
}

type GameliftAuthToken struct {
	Token      string
	Expiration time.Time
}

func GameliftComputeAuthToken(ctx context.Context, fleetID, computeName string) (*GameliftAuthToken, error) {
	out, err := GameliftClient().GetComputeAuthToken(ctx, &gamelift.GetComputeAuthTokenInput{
		FleetId:     aws.String(fleetID),
		ComputeName: aws.String(computeName),
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return &GameliftAuthToken{
		Token:      StringOr(out.AuthToken, ""),
		Expiration: aws.ToTime(out.ExpirationTimestamp),
	}, nil
}

func GameliftListComputes(ctx context.Context, fleetID string) ([]gltypes.Compute, error) {
	var computes []gltypes.Compute
	var nextToken *string
	for {
		out, err := GameliftClient().ListCompute(ctx, &gamelift.ListComputeInput{
			FleetId:   aws.String(fleetID),
			NextToken: nextToken,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		computes = append(computes, out.ComputeList...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return computes, nil
}

func GameliftDeregisterCompute(ctx context.Context, fleetID, computeName string) error {
	_, err := GameliftClient().DeregisterCompute(ctx, &gamelift.DeregisterComputeInput{
		FleetId:     aws.String(fleetID),
		ComputeName: aws.String(computeName),
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	Logger.Println("deregistered compute:", computeName)
	return nil
}

// GameliftDeleteFleet refuses while computes are still registered, which is
// also what the service would do, but with a message naming them.
func GameliftDeleteFleet(ctx context.Context, fleetID string) error {
	computes, err := GameliftListComputes(ctx, fleetID)
	if err != nil {
		return err
	}
	if len(computes) > 0 {
		var names []string
		for _, compute := range computes {
			names = append(names, StringOr(compute.ComputeName, "-"))
		}
		err := fmt.Errorf("fleet %s still has registered computes, deregister first: %s", fleetID, strings.Join(names, " "))
		Logger.Println("error:", err)
		return err
	}
	_, err = GameliftClient().DeleteFleet(ctx, &gamelift.DeleteFleetInput{
		FleetId: aws.String(fleetID),
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	Logger.Println("deleted fleet:", fleetID)
	return nil
}

type GameliftSession struct {
	SessionID string
	IpAddress string
	Port      int32
	Status    gltypes.GameSessionStatus
}

// GameliftCreateGameSession creates a session on the fleet location and polls
// until ACTIVE, returning the connect address.
func GameliftCreateGameSession(ctx context.Context, fleetID, location, name string, maxPlayers int, props map[string]string) (*GameliftSession, error) {
	if name == "" {
		name = "session-" + uuid.Must(uuid.NewV4()).String()[:8]
	}
	var properties []gltypes.GameProperty
	for k, v := range props {
		properties = append(properties, gltypes.GameProperty{
			Key:   aws.String(k),
			Value: aws.String(v),
		})
	}
	out, err := GameliftClient().CreateGameSession(ctx, &gamelift.CreateGameSessionInput{
		FleetId:                   aws.String(fleetID),
		Location:                  aws.String(location),
		Name:                      aws.String(name),
		MaximumPlayerSessionCount: aws.Int32(int32(maxPlayers)),
		GameProperties:            properties,
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	sessionID := *out.GameSession.GameSessionId
	start := time.Now()
	for {
		desc, err := GameliftClient().DescribeGameSessions(ctx, &gamelift.DescribeGameSessionsInput{
			GameSessionId: aws.String(sessionID),
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		if len(desc.GameSessions) == 0 {
			err := fmt.Errorf("game session vanished: %s", sessionID)
			Logger.Println("error:", err)
			return nil, err
		}
		session := desc.GameSessions[0]
		switch session.Status {
		case gltypes.GameSessionStatusActive:
			return &GameliftSession{
				SessionID: sessionID,
				IpAddress: StringOr(session.IpAddress, ""),
				Port:      aws.ToInt32(session.Port),
				Status:    session.Status,
			}, nil
		case gltypes.GameSessionStatusError, gltypes.GameSessionStatusTerminated:
			err := fmt.Errorf("game session %s entered status %s", sessionID, session.Status)
			Logger.Println("error:", err)
			return nil, err
		}
		if time.Since(start) > gameliftSessionTimeout {
			err := fmt.Errorf("game session %s still %s after %s", sessionID, session.Status, time.Since(start).Round(time.Second))
			Logger.Println("error:", err)
			return nil, err
		}
		Logger.Println("game session", sessionID+":", session.Status)
		time.Sleep(2 * time.Second)
	}
}
