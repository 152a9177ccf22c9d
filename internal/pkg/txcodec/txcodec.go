// Package txcodec encodes the instruction payloads built by the transfer
// flow: the ERC-20 transfer call and the SPL Token transfer instruction.
package txcodec

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrAmountOutOfRange is returned when an amount does not fit the encoded word.
var ErrAmountOutOfRange = errors.New("amount out of range")

// ERC20TransferSelector is the 4-byte selector of transfer(address,uint256).
var ERC20TransferSelector = crypto.Keccak256([]byte("transfer(address,uint256)"))[:4]

// ERC20Transfer is the call data of an ERC-20 transfer(address,uint256).
type ERC20Transfer struct {
	To     common.Address
	Amount *big.Int
}

// Encode returns selector ‖ left-padded recipient (32 bytes) ‖ amount (32 bytes).
func (t ERC20Transfer) Encode() ([]byte, error) {
	if t.Amount == nil || t.Amount.Sign() < 0 || t.Amount.BitLen() > 256 {
		return nil, ErrAmountOutOfRange
	}

	data := make([]byte, 0, 4+32+32)
	data = append(data, ERC20TransferSelector...)
	data = append(data, common.LeftPadBytes(t.To.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(t.Amount.Bytes(), 32)...)
	return data, nil
}

// SPLTransferOpcode is the instruction index of Transfer in the SPL Token program.
const SPLTransferOpcode byte = 3

// SPLTransfer is the data of an SPL Token Transfer instruction.
type SPLTransfer struct {
	Amount uint64
}

// Encode returns the opcode followed by the amount as little-endian u64.
func (t SPLTransfer) Encode() []byte {
	data := make([]byte, 9)
	data[0] = SPLTransferOpcode
	binary.LittleEndian.PutUint64(data[1:], t.Amount)
	return data
}
