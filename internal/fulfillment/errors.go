package fulfillment

import "errors"

var (
	// ErrMissingName is returned when encoding a ParameterDefinition without a name.
	ErrMissingName = errors.New("fulfillment: parameter definition requires a name")

	// ErrInvalidKubeconfig is returned when Hub.Kubeconfig is not valid base64.
	ErrInvalidKubeconfig = errors.New("fulfillment: kubeconfig is not valid base64")
)
