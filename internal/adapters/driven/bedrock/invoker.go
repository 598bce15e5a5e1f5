package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Region is the single provider region used for every model call. The
// models this service depends on are only provisioned there, so the
// configured application region is deliberately not consulted.
const Region = "us-east-1"

// Invoker executes one raw model invocation. The embedding and chat
// clients share it; tests substitute a fake.
type Invoker interface {
	InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error)
}

// runtimeInvoker wraps the Bedrock runtime client.
type runtimeInvoker struct {
	client *bedrockruntime.Client
}

// NewRuntimeInvoker creates an Invoker over the Bedrock runtime API,
// pinned to Region.
func NewRuntimeInvoker(ctx context.Context) (Invoker, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &runtimeInvoker{client: bedrockruntime.NewFromConfig(cfg)}, nil
}

func (r *runtimeInvoker) InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	out, err := r.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}
