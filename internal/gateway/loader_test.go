package gateway

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingRegistry struct {
	present     bool
	injectErr   error
	hasCalls    int
	injectCalls int
}

func (r *recordingRegistry) Has(src string) bool {
	r.hasCalls++
	return r.present
}

func (r *recordingRegistry) Inject(src string) error {
	r.injectCalls++
	return r.injectErr
}

func TestEnsureLoaded_InjectsOnce(t *testing.T) {
	registry := &recordingRegistry{}
	loader := NewLoader(registry, "", zap.NewNop())

	loaded, failed := loader.EnsureLoaded()
	assert.True(t, loaded)
	assert.False(t, failed)
	assert.Equal(t, 1, registry.injectCalls)

	// Repeated calls return the recorded outcome without touching the registry
	for i := 0; i < 3; i++ {
		loaded, failed = loader.EnsureLoaded()
		assert.True(t, loaded)
		assert.False(t, failed)
	}
	assert.Equal(t, 1, registry.injectCalls)
	assert.Equal(t, 1, registry.hasCalls)
}

func TestEnsureLoaded_ReusesPresentScript(t *testing.T) {
	registry := &recordingRegistry{present: true}
	loader := NewLoader(registry, "", zap.NewNop())

	loaded, failed := loader.EnsureLoaded()
	assert.True(t, loaded)
	assert.False(t, failed)
	assert.Zero(t, registry.injectCalls)
}

func TestEnsureLoaded_FailureIsTerminal(t *testing.T) {
	registry := &recordingRegistry{injectErr: fmt.Errorf("script blocked")}
	loader := NewLoader(registry, "", zap.NewNop())

	loaded, failed := loader.EnsureLoaded()
	assert.False(t, loaded)
	assert.True(t, failed)

	// No retry on subsequent calls; the failure sticks for the process lifetime
	loaded, failed = loader.EnsureLoaded()
	assert.False(t, loaded)
	assert.True(t, failed)
	assert.Equal(t, 1, registry.injectCalls)
}

func TestStatus_DoesNotTriggerLoad(t *testing.T) {
	registry := &recordingRegistry{}
	loader := NewLoader(registry, "", zap.NewNop())

	loaded, failed := loader.Status()
	assert.False(t, loaded)
	assert.False(t, failed)
	assert.Zero(t, registry.hasCalls)
	assert.Zero(t, registry.injectCalls)
}

func TestNewLoader_DefaultSource(t *testing.T) {
	loader := NewLoader(&recordingRegistry{}, "", zap.NewNop())
	require.Equal(t, DefaultSDKURL, loader.src)
}
