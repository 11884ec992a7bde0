// internal/llm/interface_test.go
package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	initialized map[string]string
	initErr     error
}

func (f *fakeProvider) Initialize(config map[string]string) error {
	if f.initErr != nil {
		return f.initErr
	}
	f.initialized = config
	return nil
}

func (f *fakeProvider) GetName() string { return "fake" }

func (f *fakeProvider) GetSupportedModels() []string { return []string{"fake-1"} }

func (f *fakeProvider) CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return &CompletionResponse{Text: "ok", ProviderName: "fake"}, nil
}

func TestRegisterAndGetProvider(t *testing.T) {
	Register("fake", func() Provider { return &fakeProvider{} })

	provider, err := GetProvider("fake", map[string]string{"api_key": "k"})
	require.NoError(t, err)
	assert.Equal(t, "fake", provider.GetName())

	fake := provider.(*fakeProvider)
	assert.Equal(t, "k", fake.initialized["api_key"])
}

func TestGetProviderUnknown(t *testing.T) {
	_, err := GetProvider("does-not-exist", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestGetProviderInitializationFailure(t *testing.T) {
	wantErr := errors.New("bad key")
	Register("fake-failing", func() Provider { return &fakeProvider{initErr: wantErr} })

	_, err := GetProvider("fake-failing", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestListProvidersIncludesRegistered(t *testing.T) {
	Register("fake-listed", func() Provider { return &fakeProvider{} })
	assert.Contains(t, ListProviders(), "fake-listed")
}

func TestGetSupportedModelsForProvider(t *testing.T) {
	Register("fake-models", func() Provider { return &fakeProvider{} })

	assert.Equal(t, []string{"fake-1"}, GetSupportedModelsForProvider("fake-models"))
	assert.Empty(t, GetSupportedModelsForProvider("nope"))
}
