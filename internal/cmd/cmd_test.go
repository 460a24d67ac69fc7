package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/vpittamp/backstage-app/internal/testutil"
)

func TestNewScheme(t *testing.T) {
	t.Parallel()

	scheme, err := NewScheme()
	require.NoError(t, err)

	gv := schema.GroupVersion{Group: "kargo.akuity.io", Version: "v1alpha1"}
	for _, kind := range []string{
		"Warehouse", "WarehouseList",
		"Freight", "FreightList",
		"Stage", "StageList",
	} {
		assert.True(t, scheme.Recognizes(gv.WithKind(kind)), kind)
	}
}

type kubeClientFactoryMock struct {
	mock.Mock
}

func (m *kubeClientFactoryMock) GetKubeClient() (client.Client, error) {
	args := m.Called()
	kcli, _ := args.Get(0).(client.Client)
	return kcli, args.Error(1)
}

func TestDefaultClientFactory(t *testing.T) {
	t.Parallel()

	kcliFactory := &kubeClientFactoryMock{}
	kcliFactory.On("GetKubeClient").Return(testutil.NewClient(), nil)

	factory := NewDefaultClientFactory(kcliFactory)

	c, err := factory.Client()
	require.NoError(t, err)
	assert.NotNil(t, c)
	kcliFactory.AssertExpectations(t)
}

func TestDefaultClientFactory_Error(t *testing.T) {
	t.Parallel()

	factoryErr := errors.New("boom")

	kcliFactory := &kubeClientFactoryMock{}
	kcliFactory.On("GetKubeClient").Return(nil, factoryErr)

	factory := NewDefaultClientFactory(kcliFactory)

	_, err := factory.Client()
	require.ErrorIs(t, err, factoryErr)
}

type restConfigFactoryMock struct {
	mock.Mock
}

func (m *restConfigFactoryMock) GetConfig() (*rest.Config, error) {
	args := m.Called()
	cfg, _ := args.Get(0).(*rest.Config)
	return cfg, args.Error(1)
}

func TestDefaultKubeClientFactory_ConfigError(t *testing.T) {
	t.Parallel()

	cfgErr := errors.New("no kubeconfig")

	cfgFactory := &restConfigFactoryMock{}
	cfgFactory.On("GetConfig").Return(nil, cfgErr)

	scheme, err := NewScheme()
	require.NoError(t, err)

	factory := NewDefaultKubeClientFactory(scheme, cfgFactory)

	_, err = factory.GetKubeClient()
	require.ErrorIs(t, err, cfgErr)
}
