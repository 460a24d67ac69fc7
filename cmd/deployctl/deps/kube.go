package deps

import (
	"k8s.io/apimachinery/pkg/runtime"

	internalcmd "github.com/vpittamp/backstage-app/internal/cmd"
)

func ProvideScheme() (*runtime.Scheme, error) {
	return internalcmd.NewScheme()
}

func ProvideRestConfigFactory() internalcmd.RestConfigFactory {
	return internalcmd.NewDefaultRestConfigFactory()
}

func ProvideKubeClientFactory(
	cfgFactory internalcmd.RestConfigFactory, scheme *runtime.Scheme,
) internalcmd.KubeClientFactory {
	return internalcmd.NewDefaultKubeClientFactory(scheme, cfgFactory)
}

func ProvideClientFactory(kcliFactory internalcmd.KubeClientFactory) internalcmd.ClientFactory {
	return internalcmd.NewDefaultClientFactory(kcliFactory)
}
