package lib

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	apitypes "github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

var lambdaClient *lambda.Client
var lambdaClientLock sync.Mutex

func LambdaClient() *lambda.Client {
	lambdaClientLock.Lock()
	defer lambdaClientLock.Unlock()
	if lambdaClient == nil {
		lambdaClient = lambda.NewFromConfig(*Session())
	}
	return lambdaClient
}

var apiClient *apigatewayv2.Client
var apiClientLock sync.Mutex

func ApiClient() *apigatewayv2.Client {
	apiClientLock.Lock()
	defer apiClientLock.Unlock()
	if apiClient == nil {
		apiClient = apigatewayv2.NewFromConfig(*Session())
	}
	return apiClient
}

// LambdaZipBytes zips a built handler directory. The binary must be named
// bootstrap for provided.al2023.
func LambdaZipBytes(dir string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate
		// stable zips regardless of checkout time
		header.Modified = time.Time{}
		f, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		_, err = io.Copy(f, src)
		return err
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	err = w.Close()
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func LambdaArn(ctx context.Context, name string) (string, error) {
	out, err := LambdaClient().GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		return "", err
	}
	return *out.Configuration.FunctionArn, nil
}

// LambdaEnsure creates or updates the function from a built handler dir,
// then waits for LastUpdateStatus Successful.
func LambdaEnsure(ctx context.Context, name, dir string, env map[string]string) (string, error) {
	zipBytes, err := LambdaZipBytes(dir)
	if err != nil {
		return "", err
	}
	roleArn, err := IamEnsureRole(ctx, name+"-role", "lambda", LambdaBasicPolicies, false)
	if err != nil {
		return "", err
	}
	environment := &lambdatypes.Environment{Variables: env}
	arn, err := LambdaArn(ctx, name)
	if err == nil {
		_, err = LambdaClient().UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
			FunctionName: aws.String(name),
			ZipFile:      zipBytes,
		})
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
		err = lambdaWaitUpdated(ctx, name)
		if err != nil {
			return "", err
		}
		_, err = LambdaClient().UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
			FunctionName: aws.String(name),
			Environment:  environment,
		})
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
		Logger.Println("updated function:", name)
	} else if strings.Contains(err.Error(), "ResourceNotFoundException") {
		// iam is eventually consistent, a fresh role can 400 for a bit
		err = Retry(ctx, func() error {
			out, err := LambdaClient().CreateFunction(ctx, &lambda.CreateFunctionInput{
				FunctionName: aws.String(name),
				Role:         aws.String(roleArn),
				Runtime:      lambdatypes.RuntimeProvidedal2023,
				Handler:      aws.String("bootstrap"),
				Architectures: []lambdatypes.Architecture{
					lambdatypes.ArchitectureArm64,
				},
				Code:        &lambdatypes.FunctionCode{ZipFile: zipBytes},
				Environment: environment,
				Timeout:     aws.Int32(30),
				MemorySize:  aws.Int32(128),
			})
			if err != nil {
				return err
			}
			arn = *out.FunctionArn
			return nil
		})
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
		Logger.Println("created function:", name)
	} else {
		Logger.Println("error:", err)
		return "", err
	}
	err = lambdaWaitUpdated(ctx, name)
	if err != nil {
		return "", err
	}
	if arn == "" {
		arn, err = LambdaArn(ctx, name)
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
	}
	return arn, nil
}

func lambdaWaitUpdated(ctx context.Context, name string) error {
	start := time.Now()
	for {
		out, err := LambdaClient().GetFunction(ctx, &lambda.GetFunctionInput{
			FunctionName: aws.String(name),
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		state := out.Configuration.State
		update := out.Configuration.LastUpdateStatus
		if state == lambdatypes.StateActive && update != lambdatypes.LastUpdateStatusInProgress {
			if update == lambdatypes.LastUpdateStatusFailed {
				err := fmt.Errorf("function %s update failed: %s", name, StringOr(out.Configuration.LastUpdateStatusReason, ""))
				Logger.Println("error:", err)
				return err
			}
			return nil
		}
		if time.Since(start) > 2*time.Minute {
			err := fmt.Errorf("function %s still %s/%s after %s", name, state, update, time.Since(start).Round(time.Second))
			Logger.Println("error:", err)
			return err
		}
		time.Sleep(2 * time.Second)
	}
}

func LambdaInvoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	out, err := LambdaClient().Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(name),
		Payload:      payload,
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	if out.FunctionError != nil {
		err := fmt.Errorf("function error: %s %s", *out.FunctionError, string(out.Payload))
		Logger.Println("error:", err)
		return out.Payload, err
	}
	return out.Payload, nil
}

func lambdaFindApi(ctx context.Context, name string) (*apitypes.Api, error) {
	var nextToken *string
	for {
		out, err := ApiClient().GetApis(ctx, &apigatewayv2.GetApisInput{
			NextToken: nextToken,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		for _, api := range out.Items {
			if StringOr(api.Name, "") == name {
				return &api, nil
			}
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return nil, nil
}

// LambdaApiEnsure fronts the function with an http api, $default route,
// auto-deploy, and the invoke permission.
func LambdaApiEnsure(ctx context.Context, name string) (string, error) {
	arn, err := LambdaArn(ctx, name)
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	api, err := lambdaFindApi(ctx, name)
	if err != nil {
		return "", err
	}
	if api == nil {
		out, err := ApiClient().CreateApi(ctx, &apigatewayv2.CreateApiInput{
			Name:         aws.String(name),
			ProtocolType: apitypes.ProtocolTypeHttp,
			Target:       aws.String(arn),
		})
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
		api = &apitypes.Api{ApiEndpoint: out.ApiEndpoint, ApiId: out.ApiId}
		Logger.Println("created api:", name, StringOr(out.ApiEndpoint, ""))
	}
	account, err := StsAccount(ctx)
	if err != nil {
		return "", err
	}
	sourceArn := fmt.Sprintf("arn:aws:execute-api:%s:%s:%s/*/*", Region(), account, StringOr(api.ApiId, ""))
	_, err = LambdaClient().AddPermission(ctx, &lambda.AddPermissionInput{
		FunctionName: aws.String(name),
		StatementId:  aws.String(name + "-apigateway"),
		Action:       aws.String("lambda:InvokeFunction"),
		Principal:    aws.String("apigateway.amazonaws.com"),
		SourceArn:    aws.String(sourceArn),
	})
	if err != nil && !strings.Contains(err.Error(), "ResourceConflictException") {
		Logger.Println("error:", err)
		return "", err
	}
	return StringOr(api.ApiEndpoint, ""), nil
}

func LambdaApiUrl(ctx context.Context, name string) (string, error) {
	api, err := lambdaFindApi(ctx, name)
	if err != nil {
		return "", err
	}
	if api == nil {
		err := fmt.Errorf("no api named: %s", name)
		Logger.Println("error:", err)
		return "", err
	}
	return StringOr(api.ApiEndpoint, ""), nil
}

func LambdaVars(ctx context.Context, name string) (map[string]string, error) {
	out, err := LambdaClient().GetFunctionConfiguration(ctx, &lambda.GetFunctionConfigurationInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	if out.Environment == nil {
		return map[string]string{}, nil
	}
	return out.Environment.Variables, nil
}
