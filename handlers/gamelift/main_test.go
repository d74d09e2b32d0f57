package main

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/gamelift"
	gltypes "github.com/aws/aws-sdk-go-v2/service/gamelift/types"
)

type fakeGamelift struct {
	fleets map[string]gltypes.FleetAttributes
	err    error
}

func (f *fakeGamelift) ListFleets(_ context.Context, _ *gamelift.ListFleetsInput, _ ...func(*gamelift.Options)) (*gamelift.ListFleetsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []string
	for id := range f.fleets {
		ids = append(ids, id)
	}
	return &gamelift.ListFleetsOutput{FleetIds: ids}, nil
}

func (f *fakeGamelift) DescribeFleetAttributes(_ context.Context, input *gamelift.DescribeFleetAttributesInput, _ ...func(*gamelift.Options)) (*gamelift.DescribeFleetAttributesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &gamelift.DescribeFleetAttributesOutput{}
	for _, id := range input.FleetIds {
		attrs, ok := f.fleets[id]
		if ok {
			out.FleetAttributes = append(out.FleetAttributes, attrs)
		}
	}
	return out, nil
}

func request(method, body string) events.APIGatewayProxyRequest {
	req := events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Body:       body,
	}
	req.RequestContext.RequestID = "test-request-id"
	return req
}

func testHandler() *handler {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &handler{client: &fakeGamelift{
		fleets: map[string]gltypes.FleetAttributes{
			"fleet-123": {
				FleetId:      aws.String("fleet-123"),
				Name:         aws.String("anywhere-dev"),
				ComputeType:  gltypes.ComputeTypeAnywhere,
				Status:       gltypes.FleetStatusActive,
				CreationTime: &created,
			},
		},
	}}
}

func TestListFleets(t *testing.T) {
	out, err := testHandler().handle(context.Background(), request("GET", ""))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 200 {
		t.Fatalf("status %d", out.StatusCode)
	}
	var body apiResponse
	err = json.Unmarshal([]byte(out.Body), &body)
	if err != nil {
		t.Fatal(err)
	}
	if body.Operation != "list_fleets" || body.FleetCount != 1 {
		t.Fatalf("%+v", body)
	}
	if body.Fleets[0] != "fleet-123" {
		t.Fatalf("fleets %v", body.Fleets)
	}
}

func TestPostDefaultsToListFleets(t *testing.T) {
	out, err := testHandler().handle(context.Background(), request("POST", "not json"))
	if err != nil {
		t.Fatal(err)
	}
	var body apiResponse
	err = json.Unmarshal([]byte(out.Body), &body)
	if err != nil {
		t.Fatal(err)
	}
	if body.Operation != "list_fleets" {
		t.Fatalf("%+v", body)
	}
}

func TestDescribeFleet(t *testing.T) {
	out, err := testHandler().handle(context.Background(), request("POST", `{"action":"describe_fleet","fleet_id":"fleet-123"}`))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 200 {
		t.Fatalf("status %d", out.StatusCode)
	}
	var body apiResponse
	err = json.Unmarshal([]byte(out.Body), &body)
	if err != nil {
		t.Fatal(err)
	}
	if body.Fleet == nil || *body.Fleet.FleetId != "fleet-123" {
		t.Fatalf("%+v", body)
	}
	if body.Fleet.CreationTime == nil || *body.Fleet.CreationTime != "2026-01-02T03:04:05Z" {
		t.Fatalf("creation time %v", body.Fleet.CreationTime)
	}
}

func TestDescribeFleetMissingID(t *testing.T) {
	out, err := testHandler().handle(context.Background(), request("POST", `{"action":"describe_fleet"}`))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 400 {
		t.Fatalf("status %d", out.StatusCode)
	}
}

func TestDescribeFleetNotFound(t *testing.T) {
	out, err := testHandler().handle(context.Background(), request("POST", `{"action":"describe_fleet","fleet_id":"fleet-missing"}`))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 404 {
		t.Fatalf("status %d", out.StatusCode)
	}
}

func TestUnknownAction(t *testing.T) {
	out, err := testHandler().handle(context.Background(), request("POST", `{"action":"explode"}`))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 400 {
		t.Fatalf("status %d", out.StatusCode)
	}
}

func TestServiceError(t *testing.T) {
	h := &handler{client: &fakeGamelift{err: fmt.Errorf("throttled")}}
	out, err := h.handle(context.Background(), request("GET", ""))
	if err != nil {
		t.Fatal(err)
	}
	if out.StatusCode != 500 {
		t.Fatalf("status %d", out.StatusCode)
	}
	var body apiResponse
	_ = json.Unmarshal([]byte(out.Body), &body)
	if body.Error == nil || body.Error.Message != "throttled" {
		t.Fatalf("%+v", body)
	}
}
