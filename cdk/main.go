package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type SquadupStackProps struct {
	awscdk.StackProps
}

func NewSquadupStack(scope constructs.Construct, id string, props *SquadupStackProps) awscdk.Stack {
	var stackProps awscdk.StackProps
	if props != nil {
		stackProps = props.StackProps
	}
	stack := awscdk.NewStack(scope, &id, &stackProps)

	env := map[string]*string{
		"APP":                       jsii.String("prod"),
		"LOG_LEVEL":                 jsii.String(envOr("LOG_LEVEL", "info")),
		"CORS_ORIGINS":              jsii.String(envOr("CORS_ORIGINS", "*")),
		"RATING_RECONCILE_SCHEDULE": jsii.String(""),
	}
	for _, key := range []string{"POSTGRES_DSN", "REDIS_URL"} {
		if v := os.Getenv(key); v != "" {
			env[key] = jsii.String(v)
		}
	}

	fn := awslambda.NewFunction(stack, jsii.String("SquadupApi"), &awslambda.FunctionProps{
		Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
		Architecture: awslambda.Architecture_ARM_64(),
		Handler:      jsii.String("bootstrap"),
		Code:         awslambda.Code_FromAsset(jsii.String("../build"), nil),
		MemorySize:   jsii.Number(256),
		Timeout:      awscdk.Duration_Seconds(jsii.Number(30)),
		Environment:  &env,
	})

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("SquadupApiGateway"), &awsapigateway.LambdaRestApiProps{
		Handler: fn,
	})

	awscdk.NewCfnOutput(stack, jsii.String("ApiUrl"), &awscdk.CfnOutputProps{Value: api.Url()})
	return stack
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	app := awscdk.NewApp(nil)
	NewSquadupStack(app, "SquadupStack", &SquadupStackProps{})
	app.Synth(nil)
}
