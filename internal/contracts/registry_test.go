package contracts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainnetRegistry(t *testing.T) {
	r := Mainnet()

	assert.Equal(t, "mainnet", r.Network())

	addr, ok := r.Address(Marketplace)
	require.True(t, ok)
	assert.Equal(t, "0x8e5660b4ab70168b5a6feea0e0315cb49c8cd539", addr)
	assert.Equal(t, addr, r.MarketplaceAddress())

	_, ok = r.Address("NotAContract")
	assert.False(t, ok)
}

func TestMainnetAddressesAreLowercaseHex(t *testing.T) {
	r := Mainnet()
	for _, name := range []ContractName{
		MANAToken, LANDRegistry, EstateRegistry, Marketplace, DCLRegistrar,
		ExclusiveMasksCollection, Halloween2019Collection, Xmas2019Collection,
	} {
		addr, ok := r.Address(name)
		require.True(t, ok, "missing address for %s", name)
		assert.True(t, strings.HasPrefix(addr, "0x"), "%s: %s", name, addr)
		assert.Len(t, addr, 42, "%s: %s", name, addr)
		assert.Equal(t, strings.ToLower(addr), addr, "%s: %s", name, addr)
	}
}
