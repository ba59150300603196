package agentconfig

import "errors"

var (
	ErrReadConfig       = errors.New("agentconfig: failed to read config file")
	ErrDecodeConfig     = errors.New("agentconfig: failed to decode config")
	ErrInvalidSampler   = errors.New("agentconfig: sampler rate must be between 0 and 1")
	ErrEmptyServiceName = errors.New("agentconfig: service name is required")
)
