package eth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcServer answers JSON-RPC calls with the given handler and records every
// request body.
type rpcServer struct {
	*httptest.Server
	requests []rpcRequest
}

func newRPCServer(t *testing.T, handle func(req rpcRequest) (any, *rpcError)) *rpcServer {
	t.Helper()
	s := &rpcServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		s.requests = append(s.requests, req)

		result, rpcErr := handle(req)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		json.NewEncoder(w).Encode(resp)
	}))
	return s
}

func TestConnectedAddress(t *testing.T) {
	srv := newRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		assert.Equal(t, "eth_accounts", req.Method)
		return []string{"0xaaaa00000000000000000000000000000000aaaa", "0xbbbb"}, nil
	})
	defer srv.Close()

	p := NewProvider(srv.URL)
	address, err := p.ConnectedAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xaaaa00000000000000000000000000000000aaaa", address)
}

func TestConnectedAddress_NoAccounts(t *testing.T) {
	srv := newRPCServer(t, func(rpcRequest) (any, *rpcError) {
		return []string{}, nil
	})
	defer srv.Close()

	p := NewProvider(srv.URL)
	address, err := p.ConnectedAddress(context.Background())
	require.NoError(t, err)
	assert.Empty(t, address, "no accounts means no wallet, not an error")
}

func TestSendTransaction(t *testing.T) {
	srv := newRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		assert.Equal(t, "eth_sendTransaction", req.Method)
		return "0xtxhash", nil
	})
	defer srv.Close()

	p := NewProvider(srv.URL)
	txHash, err := p.SendTransaction(context.Background(),
		"0xfrom", "0xto", []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, "0xtxhash", txHash)

	require.Len(t, srv.requests, 1)
	params, err := json.Marshal(srv.requests[0].Params[0])
	require.NoError(t, err)
	var tx sendTxParams
	require.NoError(t, json.Unmarshal(params, &tx))
	assert.Equal(t, "0xfrom", tx.From)
	assert.Equal(t, "0xto", tx.To)
	assert.Equal(t, "0x0102", tx.Data)
}

func TestSendTransaction_RPCError(t *testing.T) {
	srv := newRPCServer(t, func(rpcRequest) (any, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "insufficient funds"}
	})
	defer srv.Close()

	p := NewProvider(srv.URL)
	_, err := p.SendTransaction(context.Background(), "0xfrom", "0xto", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.Len(t, srv.requests, 1, "submission must not be retried")
}

func TestProvider_HTTPError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)
	_, err := p.ConnectedAddress(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls, "calls must not be retried")
}

func TestMarketplace_ExecuteOrderCalldata(t *testing.T) {
	srv := newRPCServer(t, func(rpcRequest) (any, *rpcError) {
		return "0xtxhash", nil
	})
	defer srv.Close()

	contract := "0x8e5660b4ab70168b5a6feea0e0315cb49c8cd539"
	m := NewMarketplace(NewProvider(srv.URL), contract)

	txHash, err := m.ExecuteOrder(context.Background(),
		"0xfrom", "0xc04528c14c8ffd84c7c1fb6719b4a89853035cdd", "42", big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "0xtxhash", txHash)

	require.Len(t, srv.requests, 1)
	params, err := json.Marshal(srv.requests[0].Params[0])
	require.NoError(t, err)
	var tx sendTxParams
	require.NoError(t, json.Unmarshal(params, &tx))

	assert.Equal(t, contract, tx.To)

	data, err := hex.DecodeString(strings.TrimPrefix(tx.Data, "0x"))
	require.NoError(t, err)
	require.Len(t, data, 4+3*wordSize)

	want := selector(sigExecuteOrder)
	assert.Equal(t, want, data[:4])
	assert.Equal(t, int64(42), new(big.Int).SetBytes(data[4+wordSize:4+2*wordSize]).Int64())
}

func TestMarketplace_SafeExecuteOrderUsesFingerprint(t *testing.T) {
	srv := newRPCServer(t, func(rpcRequest) (any, *rpcError) {
		return "0xtxhash", nil
	})
	defer srv.Close()

	m := NewMarketplace(NewProvider(srv.URL), "0x8e5660b4ab70168b5a6feea0e0315cb49c8cd539")
	_, err := m.SafeExecuteOrder(context.Background(),
		"0xfrom", "0xc04528c14c8ffd84c7c1fb6719b4a89853035cdd", "42", big.NewInt(1000), "0xdeadbeef")
	require.NoError(t, err)

	var tx sendTxParams
	params, _ := json.Marshal(srv.requests[0].Params[0])
	require.NoError(t, json.Unmarshal(params, &tx))

	data, err := hex.DecodeString(strings.TrimPrefix(tx.Data, "0x"))
	require.NoError(t, err)
	assert.Equal(t, selector(sigSafeExecuteOrder), data[:4])
	assert.Contains(t, fmt.Sprintf("%x", data), "deadbeef")
}

func TestMarketplace_InvalidTokenID(t *testing.T) {
	m := NewMarketplace(NewProvider("http://127.0.0.1:1"), "0x8e5660b4ab70168b5a6feea0e0315cb49c8cd539")
	_, err := m.ExecuteOrder(context.Background(), "0xfrom", "0xnft", "not-a-token", big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token id")
}
