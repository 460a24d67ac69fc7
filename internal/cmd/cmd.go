package cmd

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kargov1alpha1 "github.com/vpittamp/backstage-app/apis/kargo/v1alpha1"
)

var ErrInvalidArgs = errors.New("arguments invalid")

func NewScheme() (*runtime.Scheme, error) {
	scheme := runtime.NewScheme()

	if err := kargov1alpha1.AddToScheme(scheme); err != nil {
		return nil, err
	}

	return scheme, nil
}

type RestConfigFactory interface {
	GetConfig() (*rest.Config, error)
}

func NewDefaultRestConfigFactory() *DefaultRestConfigFactory {
	return &DefaultRestConfigFactory{}
}

// DefaultRestConfigFactory loads connection config with the standard
// kubeconfig loading rules (KUBECONFIG, then the home kubeconfig).
type DefaultRestConfigFactory struct{}

func (f *DefaultRestConfigFactory) GetConfig() (*rest.Config, error) {
	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		clientcmd.NewDefaultClientConfigLoadingRules(),
		&clientcmd.ConfigOverrides{},
	).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}

	return cfg, nil
}

type KubeClientFactory interface {
	GetKubeClient() (client.Client, error)
}

func NewDefaultKubeClientFactory(
	scheme *runtime.Scheme, cfgFactory RestConfigFactory,
) *DefaultKubeClientFactory {
	return &DefaultKubeClientFactory{
		scheme:     scheme,
		cfgFactory: cfgFactory,
	}
}

type DefaultKubeClientFactory struct {
	scheme     *runtime.Scheme
	cfgFactory RestConfigFactory
}

func (f *DefaultKubeClientFactory) GetKubeClient() (client.Client, error) {
	cfg, err := f.cfgFactory.GetConfig()
	if err != nil {
		return nil, err
	}

	kcli, err := client.New(cfg, client.Options{Scheme: f.scheme})
	if err != nil {
		return nil, fmt.Errorf("creating kube client: %w", err)
	}

	return kcli, nil
}

type ClientFactory interface {
	Client() (*Client, error)
}

func NewDefaultClientFactory(kcliFactory KubeClientFactory) *DefaultClientFactory {
	return &DefaultClientFactory{
		kcliFactory: kcliFactory,
	}
}

type DefaultClientFactory struct {
	kcliFactory KubeClientFactory
}

func (f *DefaultClientFactory) Client() (*Client, error) {
	kcli, err := f.kcliFactory.GetKubeClient()
	if err != nil {
		return nil, err
	}

	return NewClient(kcli), nil
}
