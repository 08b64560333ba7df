package inventory

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Kind classifies a service by what it is, inferred from the service name
// prefix used by the deployment (s01..sNN for storage nodes, s3-gate01,
// http-gate01, morph-chain01, main-chain01, ir01, coredns01).
type Kind string

const (
	KindStorageNode Kind = "storage-node"
	KindS3Gate      Kind = "s3-gate"
	KindHTTPGate    Kind = "http-gate"
	KindMorphChain  Kind = "morph-chain"
	KindMainChain   Kind = "main-chain"
	KindInnerRing   Kind = "inner-ring"
	KindNameServer  Kind = "name-server"
	KindUnknown     Kind = "unknown"
)

// ServiceKind infers the kind of a service from its name. Prefix order
// matters: s3-gate must be probed before the bare storage-node prefix.
func ServiceKind(name string) Kind {
	switch {
	case strings.HasPrefix(name, "s3-gate"):
		return KindS3Gate
	case strings.HasPrefix(name, "http-gate"):
		return KindHTTPGate
	case strings.HasPrefix(name, "morph-chain"):
		return KindMorphChain
	case strings.HasPrefix(name, "main-chain"):
		return KindMainChain
	case strings.HasPrefix(name, "ir"):
		return KindInnerRing
	case strings.HasPrefix(name, "coredns"):
		return KindNameServer
	case strings.HasPrefix(name, "s"):
		return KindStorageNode
	default:
		return KindUnknown
	}
}

// Kind returns the inferred kind of this service.
func (s Service) Kind() Kind {
	return ServiceKind(s.Name)
}

// StorageNodeAttrs is the typed view over a storage node's attributes.
type StorageNodeAttrs struct {
	ContainerName   string `mapstructure:"container_name"`
	ConfigPath      string `mapstructure:"config_path"`
	WalletPath      string `mapstructure:"wallet_path"`
	WalletPassword  string `mapstructure:"wallet_password"`
	Endpoint        string `mapstructure:"endpoint_data0"`
	ControlEndpoint string `mapstructure:"control_endpoint"`
	UNLocode        string `mapstructure:"un_locode"`
}

// S3GateAttrs is the typed view over an S3 gateway's attributes.
type S3GateAttrs struct {
	ContainerName  string `mapstructure:"container_name"`
	ConfigPath     string `mapstructure:"config_path"`
	WalletPath     string `mapstructure:"wallet_path"`
	WalletPassword string `mapstructure:"wallet_password"`
	Endpoint       string `mapstructure:"endpoint"`
}

// HTTPGateAttrs is the typed view over an HTTP gateway's attributes.
type HTTPGateAttrs struct {
	ContainerName string `mapstructure:"container_name"`
	ConfigPath    string `mapstructure:"config_path"`
	Endpoint      string `mapstructure:"endpoint"`
}

// ChainAttrs is the typed view over a blockchain node's attributes, shared by
// the sidechain and the main chain.
type ChainAttrs struct {
	ContainerName  string `mapstructure:"container_name"`
	ConfigPath     string `mapstructure:"config_path"`
	Endpoint       string `mapstructure:"endpoint_internal0"`
	WalletPath     string `mapstructure:"wallet_path"`
	WalletPassword string `mapstructure:"wallet_password"`
}

// NameServerAttrs is the typed view over a name server's attributes.
type NameServerAttrs struct {
	ContainerName string `mapstructure:"container_name"`
}

// DecodeAttrs decodes a service's attribute map into a typed view. Absent
// keys leave the corresponding fields at their zero value, per the contract
// that consumers tolerate missing attributes.
func (s Service) DecodeAttrs(out interface{}) error {
	if err := mapstructure.Decode(s.Attributes, out); err != nil {
		return fmt.Errorf("failed to decode attributes of service %s: %w", s.Name, err)
	}
	return nil
}
