package types

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const (
	AddressLength = 32

	CanonicalBump uint8 = 255
)

const (
	SeedProfile       = "profile"
	SeedValidator     = "validator"
	SeedGlobalMint    = "global-mint"
	SeedMintAuthority = "mint-authority"
	SeedMintAdmin     = "mint-admin"
	SeedPool          = "pool"
	SeedRewardVault   = "reward-vault"
	SeedStakeVault    = "stake-vault"
	SeedStakeHolding  = "stake-holding"
	SeedTokenAccount  = "token-account"
	SeedProposal      = "proposal"
	SeedVote          = "vote"
)

var ErrInvalidAddress = errors.New("invalid address")

// Address is either an ed25519 public key or a keccak derived record key.
type Address [AddressLength]byte

func BytesToAddress(b []byte) (a Address) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return
}

func HexToAddress(s string) (a Address, err error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, errors.Wrapf(ErrInvalidAddress, "%s", err)
	}
	if len(b) != AddressLength {
		return a, errors.Wrapf(ErrInvalidAddress, "length %d", len(b))
	}
	copy(a[:], b)
	return
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

func (a Address) IsZero() bool { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	v, err := HexToAddress(string(input))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// IDSeed encodes a numeric id the way it takes part in derivation.
func IDSeed(id uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], id)
	return b[:]
}

// CreateAddress hashes the length prefixed tag, components and bump.
func CreateAddress(bump uint8, tag string, components ...[]byte) Address {
	buf := make([]byte, 0, 1+len(tag)+len(components)*(1+AddressLength)+1)
	buf = append(buf, byte(len(tag)))
	buf = append(buf, tag...)
	for _, c := range components {
		buf = append(buf, byte(len(c)))
		buf = append(buf, c...)
	}
	buf = append(buf, bump)
	return Address(crypto.Keccak256Hash(buf))
}

func FindAddress(tag string, components ...[]byte) (Address, uint8) {
	return CreateAddress(CanonicalBump, tag, components...), CanonicalBump
}

func ProfileAddress(authority Address) (Address, uint8) {
	return FindAddress(SeedProfile, authority[:])
}

func ValidatorAddress(authority Address, id uint64) (Address, uint8) {
	return FindAddress(SeedValidator, authority[:], IDSeed(id))
}

func MintAddress() Address {
	a, _ := FindAddress(SeedGlobalMint)
	return a
}

func MintAuthorityAddress() Address {
	a, _ := FindAddress(SeedMintAuthority)
	return a
}

func MintAdminAddress() Address {
	a, _ := FindAddress(SeedMintAdmin)
	return a
}

func PoolAddress(authority Address, id uint64) (Address, uint8) {
	return FindAddress(SeedPool, authority[:], IDSeed(id))
}

func RewardVaultAuthority(pool Address) Address {
	a, _ := FindAddress(SeedRewardVault, pool[:])
	return a
}

func StakeVaultAddress(user Address) Address {
	a, _ := FindAddress(SeedStakeVault, user[:])
	return a
}

func StakeHoldingAddress(stakeVault, pool Address) Address {
	a, _ := FindAddress(SeedStakeHolding, stakeVault[:], pool[:])
	return a
}

// TokenAccountAddress is the associated token account of owner for mint.
func TokenAccountAddress(owner, mint Address) Address {
	a, _ := FindAddress(SeedTokenAccount, owner[:], mint[:])
	return a
}

func RewardVaultAddress(pool, rewardMint Address) Address {
	return TokenAccountAddress(RewardVaultAuthority(pool), rewardMint)
}

func ProposalAddress(profile Address, id uint64) (Address, uint8) {
	return FindAddress(SeedProposal, profile[:], IDSeed(id))
}

func VoteAddress(proposal, validator Address) Address {
	a, _ := FindAddress(SeedVote, proposal[:], validator[:])
	return a
}
