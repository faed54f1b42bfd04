package assistant

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia-hq/academia/core/certification"
)

type completerMock struct {
	reply  string
	err    error
	blocks []Block
}

func (m *completerMock) Complete(ctx context.Context, blocks []Block) (string, error) {
	m.blocks = blocks
	return m.reply, m.err
}

func TestServiceChat(t *testing.T) {
	ctx := context.Background()
	catalog := certification.Catalog{
		{ID: "aws-saa", Name: "AWS Certified Solutions Architect - Associate", Provider: "AWS", Category: "Cloud"},
		{ID: "cka", Name: "Certified Kubernetes Administrator", Provider: "CNCF", Category: "DevOps"},
	}

	t.Run("catalog unavailable fails every chat", func(t *testing.T) {
		loadErr := errors.Wrap(certification.ErrCatalogUnavailable, "reading catalog")
		svc := NewService(nil, loadErr, &completerMock{reply: "unused"})

		_, err := svc.Chat(ctx, ChatRequest{Message: "hello"})
		require.Error(t, err)
		assert.Equal(t, certification.ErrCatalogUnavailable, errors.Cause(err))
	})

	t.Run("prompt carries matched context", func(t *testing.T) {
		completer := &completerMock{reply: "here you go"}
		svc := NewService(catalog, nil, completer)

		reply, err := svc.Chat(ctx, ChatRequest{Message: "what AWS certifications exist?"})
		require.NoError(t, err)
		assert.Equal(t, "here you go", reply)
		require.Len(t, completer.blocks, 3) // identity + aws-saa + message
		assert.Equal(t, IdentityPrompt, completer.blocks[0].Content)
		assert.Contains(t, completer.blocks[1].Content, "AWS Certified Solutions Architect")
		assert.Equal(t, "what AWS certifications exist?", completer.blocks[2].Content)
	})

	t.Run("explicit certification id wins", func(t *testing.T) {
		completer := &completerMock{reply: "ok"}
		svc := NewService(catalog, nil, completer)

		_, err := svc.Chat(ctx, ChatRequest{Message: "tell me about AWS", CertificationID: "cka"})
		require.NoError(t, err)
		require.Len(t, completer.blocks, 3)
		assert.Contains(t, completer.blocks[1].Content, "Certified Kubernetes Administrator")
	})

	t.Run("completer failure surfaces", func(t *testing.T) {
		upErr := &UpstreamError{StatusCode: 502, Body: "bad gateway"}
		svc := NewService(catalog, nil, &completerMock{err: upErr})

		_, err := svc.Chat(ctx, ChatRequest{Message: "anything"})
		assert.Equal(t, upErr, err)
	})
}

func TestChatRequestValidate(t *testing.T) {
	req := ChatRequest{Message: "   "}
	err := req.Validate()
	require.Error(t, err)
	assert.EqualError(t, err, ErrMessageRequired.Error())

	req = ChatRequest{Message: "  hi there  "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "hi there", req.Message)
}
