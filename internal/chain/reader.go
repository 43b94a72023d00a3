// Package chain reads ERC-20 token and yield-distributor state over JSON-RPC.
// It never sends transactions.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/sha3"
)

// ShareDecimals is the fixed precision used to convert raw token balances
// into shares.
const ShareDecimals = 18

// ErrInvalidAddress is returned when a token, distributor or holder address
// is not a 20-byte hex string.
var ErrInvalidAddress = errors.New("invalid address")

// ErrShortResponse is returned when a contract returns fewer than 32 bytes.
var ErrShortResponse = errors.New("contract returned short response")

// ContractCaller executes read-only contract calls. *ethclient.Client
// satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// BalanceReader is the subset of Reader used by reconciliation.
type BalanceReader interface {
	BalanceOf(ctx context.Context, token, holder string) (*big.Int, error)
}

// Reader issues ERC-20 view calls against a single endpoint.
type Reader struct {
	caller  ContractCaller
	timeout time.Duration
}

// NewReader wraps caller. A non-positive timeout disables the per-call deadline.
func NewReader(caller ContractCaller, timeout time.Duration) *Reader {
	return &Reader{caller: caller, timeout: timeout}
}

// Dial connects to rpcURL and returns a Reader together with the client so
// the caller can close it.
func Dial(ctx context.Context, rpcURL string, timeout time.Duration) (*Reader, *ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rpc: %w", err)
	}
	return NewReader(client, timeout), client, nil
}

var (
	selDecimals    = selector("decimals()")
	selBalanceOf   = selector("balanceOf(address)")
	selTotalSupply = selector("totalSupply()")
	selClaimable   = selector("claimable(address)")
)

func selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// Decimals returns the token's decimals().
func (r *Reader) Decimals(ctx context.Context, token string) (uint8, error) {
	v, err := r.callUint(ctx, token, selDecimals)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Uint64() > 255 {
		return 0, fmt.Errorf("decimals out of range: %s", v)
	}
	return uint8(v.Uint64()), nil
}

// BalanceOf returns the raw token balance of holder.
func (r *Reader) BalanceOf(ctx context.Context, token, holder string) (*big.Int, error) {
	if !common.IsHexAddress(holder) {
		return nil, fmt.Errorf("%w: holder %q", ErrInvalidAddress, holder)
	}
	return r.callUint(ctx, token, selBalanceOf, common.HexToAddress(holder))
}

// TotalSupply returns the raw token supply.
func (r *Reader) TotalSupply(ctx context.Context, token string) (*big.Int, error) {
	return r.callUint(ctx, token, selTotalSupply)
}

// ClaimableYield returns the raw yield claimable by holder from a distributor.
func (r *Reader) ClaimableYield(ctx context.Context, distributor, holder string) (*big.Int, error) {
	if !common.IsHexAddress(holder) {
		return nil, fmt.Errorf("%w: holder %q", ErrInvalidAddress, holder)
	}
	return r.callUint(ctx, distributor, selClaimable, common.HexToAddress(holder))
}

func (r *Reader) callUint(ctx context.Context, contract string, sel []byte, args ...common.Address) (*big.Int, error) {
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("%w: contract %q", ErrInvalidAddress, contract)
	}
	to := common.HexToAddress(contract)

	data := append([]byte{}, sel...)
	for _, a := range args {
		data = append(data, common.LeftPadBytes(a.Bytes(), 32)...)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	if len(out) < 32 {
		return nil, ErrShortResponse
	}
	return new(big.Int).SetBytes(out[:32]), nil
}

// ToShares converts a raw integer amount into a decimal with the given
// number of decimals.
func ToShares(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -decimals)
}
