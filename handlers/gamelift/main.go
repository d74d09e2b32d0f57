package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/gamelift"
	gltypes "github.com/aws/aws-sdk-go-v2/service/gamelift/types"
)

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
}

// the two calls the handler makes, so tests can fake the service
type gameliftAPI interface {
	ListFleets(ctx context.Context, input *gamelift.ListFleetsInput, opts ...func(*gamelift.Options)) (*gamelift.ListFleetsOutput, error)
	DescribeFleetAttributes(ctx context.Context, input *gamelift.DescribeFleetAttributesInput, opts ...func(*gamelift.Options)) (*gamelift.DescribeFleetAttributesOutput, error)
}

type handler struct {
	client gameliftAPI
}

type fleetInfo struct {
	FleetId         *string               `json:"FleetId"`
	FleetArn        *string               `json:"FleetArn"`
	FleetType       gltypes.FleetType     `json:"FleetType"`
	ComputeType     gltypes.ComputeType   `json:"ComputeType"`
	Status          gltypes.FleetStatus   `json:"Status"`
	Description     *string               `json:"Description"`
	Name            *string               `json:"Name"`
	CreationTime    *string               `json:"CreationTime,omitempty"`
	TerminationTime *string               `json:"TerminationTime,omitempty"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Status     string     `json:"status"`
	Message    string     `json:"message,omitempty"`
	Operation  string     `json:"operation,omitempty"`
	FleetCount int        `json:"fleet_count,omitempty"`
	Fleets     []string   `json:"fleets,omitempty"`
	Fleet      *fleetInfo `json:"fleet,omitempty"`
	NextToken  *string    `json:"next_token,omitempty"`
	Error      *errorInfo `json:"error,omitempty"`
	Timestamp  string     `json:"timestamp,omitempty"`
}

type apiRequest struct {
	Action  string `json:"action"`
	FleetID string `json:"fleet_id"`
}

func respond(status int, body apiResponse) (events.APIGatewayProxyResponse, error) {
	data, _ := json.Marshal(body)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(data),
	}, nil
}

func (h *handler) errorResponse(status int, message, details, requestID string) (events.APIGatewayProxyResponse, error) {
	body := apiResponse{
		Status:    "error",
		Message:   message,
		Timestamp: requestID,
	}
	if details != "" {
		body.Error = &errorInfo{Code: fmt.Sprint(status), Message: details}
	}
	return respond(status, body)
}

func (h *handler) handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID
	switch request.HTTPMethod {
	case "GET":
		return h.listFleets(ctx, requestID)
	case "POST":
		var body apiRequest
		if err := json.Unmarshal([]byte(request.Body), &body); err != nil {
			body = apiRequest{Action: "list_fleets"}
		}
		switch body.Action {
		case "list_fleets":
			return h.listFleets(ctx, requestID)
		case "describe_fleet":
			if body.FleetID == "" {
				return h.errorResponse(400, "missing required parameter: fleet_id", "", requestID)
			}
			return h.describeFleet(ctx, body.FleetID, requestID)
		default:
			return h.errorResponse(400, fmt.Sprintf("unknown action: %s", body.Action), "", requestID)
		}
	default:
		return h.errorResponse(405, fmt.Sprintf("method %s not supported", request.HTTPMethod), "", requestID)
	}
}

func (h *handler) listFleets(ctx context.Context, requestID string) (events.APIGatewayProxyResponse, error) {
	out, err := h.client.ListFleets(ctx, &gamelift.ListFleetsInput{})
	if err != nil {
		return h.errorResponse(500, "failed to list fleets", err.Error(), requestID)
	}
	return respond(200, apiResponse{
		Status:     "success",
		Operation:  "list_fleets",
		FleetCount: len(out.FleetIds),
		Fleets:     out.FleetIds,
		NextToken:  out.NextToken,
		Timestamp:  requestID,
	})
}

func (h *handler) describeFleet(ctx context.Context, fleetID, requestID string) (events.APIGatewayProxyResponse, error) {
	out, err := h.client.DescribeFleetAttributes(ctx, &gamelift.DescribeFleetAttributesInput{
		FleetIds: []string{fleetID},
	})
	if err != nil {
		return h.errorResponse(500, "failed to describe fleet", err.Error(), requestID)
	}
	if len(out.FleetAttributes) == 0 {
		return h.errorResponse(404, fmt.Sprintf("fleet not found: %s", fleetID), "", requestID)
	}
	attrs := out.FleetAttributes[0]
	info := &fleetInfo{
		FleetId:     attrs.FleetId,
		FleetArn:    attrs.FleetArn,
		FleetType:   attrs.FleetType,
		ComputeType: attrs.ComputeType,
		Status:      attrs.Status,
		Description: attrs.Description,
		Name:        attrs.Name,
	}
	if attrs.CreationTime != nil {
		ct := attrs.CreationTime.Format(time.RFC3339)
		info.CreationTime = &ct
	}
	if attrs.TerminationTime != nil {
		tt := attrs.TerminationTime.Format(time.RFC3339)
		info.TerminationTime = &tt
	}
	return respond(200, apiResponse{
		Status:    "success",
		Operation: "describe_fleet",
		Fleet:     info,
		Timestamp: requestID,
	})
}

func main() {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	h := &handler{client: gamelift.NewFromConfig(cfg)}
	lambda.Start(h.handle)
}
