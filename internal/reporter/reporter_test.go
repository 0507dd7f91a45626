package reporter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenthub/orchestrator/pkg/types"
)

// fake is a scriptable reporter for manager tests.
type fake struct {
	name      string
	initErr   error
	reportErr error
	closeErr  error
	reported  int
	closed    bool
}

func (f *fake) Name() string                                      { return f.name }
func (f *fake) Init(context.Context, map[string]any) error        { return f.initErr }
func (f *fake) Close(context.Context) error                       { f.closed = true; return f.closeErr }
func (f *fake) Report(context.Context, *types.WorkflowReport) error {
	f.reported++
	return f.reportErr
}

func sampleReport() *types.WorkflowReport {
	return &types.WorkflowReport{
		WorkflowID:   "wf-1",
		WorkflowName: "release",
		Status:       types.WorkflowStatusCompleted,
		GeneratedAt:  time.Now(),
	}
}

func TestRegistryRegisterAndCreate(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(Type("custom"), func(map[string]any) (Reporter, error) {
		return &fake{name: "custom"}, nil
	}))

	r, err := registry.Create(Type("custom"), nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", r.Name())
}

func TestRegistryDuplicateType(t *testing.T) {
	registry := NewRegistry()
	factory := func(map[string]any) (Reporter, error) { return &fake{}, nil }
	require.NoError(t, registry.Register(Type("custom"), factory))
	assert.Error(t, registry.Register(Type("custom"), factory))
}

func TestRegistryCreateUnknown(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Create(Type("missing"), nil)
	assert.Error(t, err)
}

func TestNewDefaultRegistry(t *testing.T) {
	registry, err := NewDefaultRegistry()
	require.NoError(t, err)

	for _, reporterType := range []Type{TypeConsole, TypeJSON, TypeWebhook} {
		r, err := registry.Create(reporterType, nil)
		require.NoError(t, err, "type %s", reporterType)
		assert.Equal(t, string(reporterType), r.Name())
	}
}

func TestManagerFansOut(t *testing.T) {
	manager := NewManager(nil)
	a := &fake{name: "a"}
	b := &fake{name: "b"}
	manager.Add(a)
	manager.Add(b)

	require.NoError(t, manager.Report(context.Background(), sampleReport()))
	assert.Equal(t, 1, a.reported)
	assert.Equal(t, 1, b.reported)
}

func TestManagerCollectsSinkErrors(t *testing.T) {
	manager := NewManager(nil)
	bad := &fake{name: "bad", reportErr: errors.New("sink down")}
	good := &fake{name: "good"}
	manager.Add(bad)
	manager.Add(good)

	err := manager.Report(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	// The failing sink must not block the healthy one.
	assert.Equal(t, 1, good.reported)
}

func TestManagerAddFromConfig(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(Type("custom"), func(map[string]any) (Reporter, error) {
		return &fake{name: "custom"}, nil
	}))

	manager := NewManager(registry)
	require.NoError(t, manager.AddFromConfig(context.Background(), Type("custom"), nil))
	require.NoError(t, manager.Report(context.Background(), sampleReport()))
}

func TestManagerAddFromConfigInitFailure(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(Type("custom"), func(map[string]any) (Reporter, error) {
		return &fake{name: "custom", initErr: errors.New("bad config")}, nil
	}))

	manager := NewManager(registry)
	err := manager.AddFromConfig(context.Background(), Type("custom"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad config")
}

func TestManagerClose(t *testing.T) {
	manager := NewManager(nil)
	a := &fake{name: "a"}
	b := &fake{name: "b", closeErr: errors.New("flush failed")}
	manager.Add(a)
	manager.Add(b)

	err := manager.Close(context.Background())
	require.Error(t, err)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
