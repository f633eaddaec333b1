package email

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	lastInput *sesv2.SendEmailInput
	err       error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSendDescription(t *testing.T) {
	fake := &fakeSES{}
	sender := NewSenderWithClient(fake, "Arthur <arthur@hello.airbnboptimizer.com>")

	err := sender.SendDescription(context.Background(), "guest@example.com", "Your new description.")
	require.NoError(t, err)

	require.NotNil(t, fake.lastInput)
	assert.Equal(t, "Arthur <arthur@hello.airbnboptimizer.com>", *fake.lastInput.FromEmailAddress)
	assert.Equal(t, []string{"guest@example.com"}, fake.lastInput.Destination.ToAddresses)

	msg := fake.lastInput.Content.Simple
	assert.Equal(t, "Your Listing, upgraded.", *msg.Subject.Data)
	assert.Contains(t, *msg.Body.Html.Data, "Your new description.")
}

func TestSendDescriptionNilSender(t *testing.T) {
	var sender *Sender
	assert.NoError(t, sender.SendDescription(context.Background(), "guest@example.com", "text"))
}
