// Package contracts maps well-known contract names to on-chain addresses.
package contracts

// ContractName is a human-facing identifier for a known contract.
type ContractName string

const (
	MANAToken      ContractName = "MANAToken"
	LANDRegistry   ContractName = "LANDRegistry"
	EstateRegistry ContractName = "EstateRegistry"
	Marketplace    ContractName = "Marketplace"
	DCLRegistrar   ContractName = "DCLRegistrar"

	ExclusiveMasksCollection ContractName = "ExclusiveMasksCollection"
	Halloween2019Collection  ContractName = "Halloween2019Collection"
	Xmas2019Collection       ContractName = "Xmas2019Collection"
)

// Registry resolves contract names for one network.
type Registry struct {
	network   string
	addresses map[ContractName]string
}

// NewRegistry creates a registry over an explicit address map.
func NewRegistry(network string, addresses map[ContractName]string) *Registry {
	return &Registry{network: network, addresses: addresses}
}

// Mainnet returns the registry for Ethereum mainnet.
func Mainnet() *Registry {
	return NewRegistry("mainnet", map[ContractName]string{
		MANAToken:      "0x0f5d2fb29fb7d3cfee444a200298f468908cc942",
		LANDRegistry:   "0xf87e31492faf9a91b02ee0deaad50d51d56d5d4d",
		EstateRegistry: "0x959e104e1a4db6317fa58f8295f586e1a978c297",
		Marketplace:    "0x8e5660b4ab70168b5a6feea0e0315cb49c8cd539",
		DCLRegistrar:   "0x2a187453064356c898cae034eaed119e1663acb8",

		ExclusiveMasksCollection: "0xc04528c14c8ffd84c7c1fb6719b4a89853035cdd",
		Halloween2019Collection:  "0xc1f4b0eea2bd6690930e6c66efd3e197d620b9c2",
		Xmas2019Collection:       "0xc3af02c0fd486c8e9da5788b915d6fff3f049866",
	})
}

// Network returns the network this registry resolves for.
func (r *Registry) Network() string {
	return r.network
}

// Address resolves a contract name. The second return is false for unknown names.
func (r *Registry) Address(name ContractName) (string, bool) {
	addr, ok := r.addresses[name]
	return addr, ok
}

// MarketplaceAddress is a convenience accessor for the exchange contract.
func (r *Registry) MarketplaceAddress() string {
	addr, _ := r.addresses[Marketplace]
	return addr
}
