package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := Protocol(429, "claude API error: %s", "rate limited")
	assert.Equal(t, "claude API error: rate limited (status 429)", err.Error())

	wrapped := Wrap(KindNetwork, errors.New("connection refused"), "sending request")
	assert.Equal(t, "sending request: connection refused", wrapped.Error())
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	base := InvalidArguments("nothing to explain")
	err := fmt.Errorf("explain: %w", base)

	assert.Equal(t, KindInvalidArguments, KindOf(err))
	assert.True(t, IsKind(err, KindInvalidArguments))
	assert.False(t, IsKind(err, KindNetwork))
	assert.False(t, IsKind(nil, KindUnknown))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 503, StatusCode(fmt.Errorf("x: %w", Protocol(503, "down"))))
	assert.Equal(t, 0, StatusCode(GitEntity("missing")))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "provider config", KindProviderConfig.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
