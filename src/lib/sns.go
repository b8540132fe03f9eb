package lib

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

var snsClient *sns.Client

func AWSGetSNSClient() *sns.Client {
	if snsClient != nil {
		return snsClient
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Error loading default config: %s\n", err.Error())
		return nil
	}
	snsClient = sns.NewFromConfig(cfg)
	return snsClient
}

func NewSNSClient(c *sns.Client) {
	snsClient = c
}

// SendSMS publishes one transactional text message. Fire-and-forget beyond
// the returned error; nothing retries on failure.
func SendSMS(phone string, body string) error {
	client := AWSGetSNSClient()
	out, err := client.Publish(context.TODO(), &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	if err != nil {
		log.Printf("Error publishing SMS to [%s]: %s\n", phone, err.Error())
		return err
	}
	log.Printf("SMS published: %s\n", *out.MessageId)
	return nil
}
