package config

// EnvConfig contains the environment configuration for the testbed toolkit.
// It is populated by coalescing values from these sources, in descending order
// of precedence:
//
//  1. environment variables.
//  2. .env.toml.
//  3. default fallbacks.
type EnvConfig struct {
	dirs Directories

	Python   PythonConfig   `toml:"python"`
	Keywords KeywordsConfig `toml:"keywords"`
	Cluster  ClusterConfig  `toml:"cluster"`
	Markers  MarkersConfig  `toml:"markers"`
	Payload  PayloadConfig  `toml:"payload"`
}

func (e EnvConfig) Dirs() Directories {
	return e.dirs
}

// PythonConfig controls how suite virtual environments are provisioned.
type PythonConfig struct {
	// Interpreter is the python executable used to create suite venvs.
	Interpreter string `toml:"interpreter"`

	// PipVersion pins the pip version installed into every venv.
	PipVersion string `toml:"pip_version"`
}

// KeywordsConfig points at the shared keyword-library checkout that every
// suite venv installs in addition to its own requirements.
type KeywordsConfig struct {
	RepoURL string `toml:"repo_url"`
	Ref     string `toml:"ref"`
}

// ClusterConfig locates the cluster under test.
type ClusterConfig struct {
	// InventoryPath is the hosting inventory YAML describing the deployment.
	InventoryPath string `toml:"inventory_path"`

	// InventoryOverridePath, when set, is merged on top of the base inventory.
	// Used for local deployments that deviate from the committed topology.
	InventoryOverridePath string `toml:"inventory_override_path"`

	// DockerEndpoint, when set, overrides the docker host taken from the
	// environment (DOCKER_HOST et al), e.g. "tcp://devenv:2375".
	DockerEndpoint string `toml:"docker_endpoint"`
}

// MarkersConfig locates the marker registry consumed by suite runners.
type MarkersConfig struct {
	RegistryPath string `toml:"registry_path"`
}

// PayloadConfig declares the object sizes used by test helpers. Values are
// human-readable sizes ("1kb", "2mb"); a complex object is one large enough
// to be split across storage nodes.
type PayloadConfig struct {
	SimpleSize  string `toml:"simple_size"`
	ComplexSize string `toml:"complex_size"`
}
