package email

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/users-api/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*resend.SendEmailResponse)
	return resp, args.Error(1)
}

func newTestClient(s sender) *Client {
	logger := zerolog.Nop()
	return &Client{sender: s, from: "Users API <test@example.com>", logger: &logger}
}

// sampleData holds template variables for every template.
var sampleData = map[Template]map[string]string{
	TemplateWelcome:         {"UserName": "John"},
	TemplatePasswordChanged: {"UserName": "John"},
}

func TestRender_AllTemplates(t *testing.T) {
	for name, data := range sampleData {
		t.Run(string(name), func(t *testing.T) {
			html, err := Render(name, data)
			require.NoError(t, err)
			assert.Contains(t, html, data["UserName"])
		})
	}
}

func TestRender_EscapesData(t *testing.T) {
	html, err := Render(TemplateWelcome, map[string]string{"UserName": "<script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}

func TestSendWelcomeEmail(t *testing.T) {
	s := &mockSender{}
	s.On("SendWithContext", mock.Anything, mock.MatchedBy(func(p *resend.SendEmailRequest) bool {
		return p.From == "Users API <test@example.com>" &&
			len(p.To) == 1 && p.To[0] == "a@x.com" &&
			p.Subject == "Welcome to Users API!"
	})).Return(&resend.SendEmailResponse{Id: "em_1"}, nil)

	require.NoError(t, newTestClient(s).SendWelcomeEmail(context.Background(), "a@x.com", "A"))
	s.AssertExpectations(t)
}

func TestSendPasswordChangedEmail_ProviderError(t *testing.T) {
	s := &mockSender{}
	s.On("SendWithContext", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	err := newTestClient(s).SendPasswordChangedEmail(context.Background(), "a@x.com", "A")
	assert.ErrorContains(t, err, "rate limited")
}

func TestNewClient_WithoutAPIKeySkipsDelivery(t *testing.T) {
	logger := zerolog.Nop()
	cfg := &config.Config{Integration: config.IntegrationConfig{EmailFrom: "x <x@example.com>"}}

	c := NewClient(cfg, &logger)
	assert.Nil(t, c.sender)
	assert.NoError(t, c.SendWelcomeEmail(context.Background(), "a@x.com", "A"))
}
