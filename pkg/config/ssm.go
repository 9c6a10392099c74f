package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterReader is the slice of the SSM client used to pull parameters.
type ParameterReader interface {
	GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// LoadFromSSM exports every parameter under prefix as an env var named by the
// remainder of its path, and returns how many were set.
func LoadFromSSM(ctx context.Context, client ParameterReader, prefix string) (int, error) {
	p := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	n := 0
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return n, fmt.Errorf("get parameters by path %s: %w", prefix, err)
		}
		for _, param := range out.Parameters {
			name := aws.ToString(param.Name)
			key := strings.TrimPrefix(strings.TrimPrefix(name, prefix), "/")
			if key == "" {
				continue
			}
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return n, fmt.Errorf("set env %s: %w", key, err)
			}
			n++
		}
	}
	return n, nil
}
