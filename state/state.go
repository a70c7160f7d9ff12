package state

import (
	"fmt"
	"maps"
	"sort"

	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

const (
	ModifiedFlagNew = 1 << 0
	ModifiedFlagMod = 1 << 1
	ModifiedFlagDel = 1 << 2
)

var (
	KeyState        = "s"
	KeyMintAdmin    = "a%x"
	KeyProfile      = "p%x"
	KeyValidator    = "v%x"
	KeyMint         = "m%x"
	KeyTokenAccount = "t%x"
	KeyPool         = "l%x"
	KeyStakeVault   = "k%x"
	KeyStakePool    = "q%x"
	KeyProposal     = "g%x"
	KeyVote         = "o%x"
	KeyVoteIndex    = "i%x%x"
	KeyNonce        = "n%x"
)

func recordKey(pattern string, addrs ...types.Address) []byte {
	args := make([]any, len(addrs))
	for i, a := range addrs {
		args[i] = a.Bytes()
	}
	return []byte(fmt.Sprintf(pattern, args...))
}

type reader interface {
	get(key []byte) ([]byte, error)
}

func loadRecord[T any](r reader, key []byte) (*T, error) {
	val, err := r.get(key)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	rec := new(T)
	if err = rlp.DecodeBytes(val, rec); err != nil {
		return nil, errors.Wrapf(err, "decode record %s", key)
	}
	return rec, nil
}

// State is the working state of one block. Writes stay in the cache until Update.
type State struct {
	logger cmtlog.Logger
	db     *iavl.MutableTree
	dbVer  int64

	header   *StateHeader
	cache    map[string][]byte
	modified map[string]uint32
}

func newState(db *iavl.MutableTree, logger cmtlog.Logger) *State {
	return &State{
		logger:   logger,
		db:       db,
		dbVer:    0,
		header:   new(StateHeader),
		cache:    make(map[string][]byte),
		modified: make(map[string]uint32),
	}
}

func (s *State) nextState() *State {
	n := &State{
		logger:   s.logger,
		db:       s.db,
		dbVer:    s.dbVer,
		header:   s.header.Clone(),
		cache:    make(map[string][]byte),
		modified: make(map[string]uint32),
	}
	if s.header.GetHash() != nil {
		n.header.Height = s.header.Height + 1
	}
	return n
}

func (s *State) Clone() *State {
	return &State{
		logger:   s.logger,
		db:       s.db,
		dbVer:    s.dbVer,
		header:   s.header.Clone(),
		cache:    maps.Clone(s.cache),
		modified: maps.Clone(s.modified),
	}
}

// Atomic runs fn as one unit: every write made by fn is dropped when it fails.
func (s *State) Atomic(fn func() error) error {
	return s.transact(fn)
}

// transact runs fn and drops every write it made when it fails.
func (s *State) transact(fn func() error) error {
	cache := maps.Clone(s.cache)
	modified := maps.Clone(s.modified)
	if err := fn(); err != nil {
		s.cache = cache
		s.modified = modified
		return err
	}
	return nil
}

func (s *State) load() (err error) {
	val, err := s.db.Get([]byte(KeyState))
	if err != nil {
		if !errors.Is(err, leveldb.ErrNotFound) {
			return err
		}
		return nil
	}
	if val != nil {
		if err = s.header.Unmarshal(val); err != nil {
			return
		}
		h := s.db.Hash()
		if h != nil {
			s.calcHash(h, true)
		}
	}
	return
}

func (s *State) calcHash(rootHash []byte, update bool) (h common.Hash) {
	h = crypto.Keccak256Hash(rootHash)
	if update {
		s.header.RootHash = append(s.header.RootHash[:0], rootHash...)
		s.header.Hash = append(s.header.Hash[:0], h[:]...)
	}
	return
}

func (s *State) get(key []byte) ([]byte, error) {
	k := string(key)
	if v, ok := s.cache[k]; ok {
		if s.modified[k]&ModifiedFlagDel != 0 {
			return nil, nil
		}
		return v, nil
	}
	val, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (s *State) has(key []byte) (bool, error) {
	val, err := s.get(key)
	return val != nil, err
}

func (s *State) put(key []byte, rec any) error {
	val, err := rlp.EncodeToBytes(rec)
	if err != nil {
		return errors.Wrapf(err, "encode record %s", key)
	}
	exists, err := s.has(key)
	if err != nil {
		return err
	}
	k := string(key)
	if exists {
		s.modified[k] = (s.modified[k] | ModifiedFlagMod) &^ ModifiedFlagDel
	} else {
		s.modified[k] = ModifiedFlagNew
	}
	s.cache[k] = val
	return nil
}

func (s *State) del(key []byte) {
	k := string(key)
	s.cache[k] = nil
	s.modified[k] = ModifiedFlagDel
}

func (s *State) Update() (h common.Hash, err error) {
	var hash []byte
	defer func() {
		if hash == nil {
			s.db.Rollback()
		}
	}()
	_, err = s.db.Set([]byte(KeyState), s.header.Marshal())
	if err != nil {
		return
	}

	keys := make([]string, 0, len(s.modified))
	for k := range s.modified {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s.modified[k]&ModifiedFlagDel != 0 {
			if _, _, err = s.db.Remove([]byte(k)); err != nil {
				return
			}
			continue
		}
		if _, err = s.db.Set([]byte(k), s.cache[k]); err != nil {
			return
		}
	}
	hash = s.db.WorkingHash()
	h = s.calcHash(hash, false)
	s.cache = make(map[string][]byte)
	s.modified = make(map[string]uint32)
	return
}

func (s *State) save() (h common.Hash, err error) {
	hash, ver, err := s.db.SaveVersion()
	if err != nil {
		return h, err
	}
	s.dbVer = ver
	h = s.calcHash(hash, true)
	return
}

func (s *State) Header() *StateHeader {
	return s.header
}

func (s *State) Hash() (h common.Hash) {
	if s.header.Hash != nil {
		copy(h[:], s.header.Hash)
	}
	return
}

func (s *State) SetChainId(chainId string) {
	s.header.ChainId = chainId
}

func (s *State) SetBlockTime(t uint64) {
	s.header.BlockTime = t
}

func (s *State) BlockTime() uint64 {
	return s.header.BlockTime
}

func (s *State) Nonce(addr types.Address) (uint64, error) {
	val, err := s.get(recordKey(KeyNonce, addr))
	if err != nil || val == nil {
		return 0, err
	}
	var nonce uint64
	if err = rlp.DecodeBytes(val, &nonce); err != nil {
		return 0, err
	}
	return nonce, nil
}

func (s *State) IncNonce(addr types.Address) error {
	nonce, err := s.Nonce(addr)
	if err != nil {
		return err
	}
	return s.put(recordKey(KeyNonce, addr), nonce+1)
}

// Verify authenticates the envelope and returns the signer identity.
func (s *State) Verify(btx *tx.RegTx, allowNonceGap bool) (signer types.Address, err error) {
	signer, err = btx.SignerAddress()
	if err != nil {
		return
	}
	nonce, err := s.Nonce(signer)
	if err != nil {
		return
	}
	if !(nonce == btx.Nonce || (allowNonceGap && nonce < btx.Nonce)) {
		err = errors.Wrapf(ErrTxNonceInvalid, "want %d got %d", nonce, btx.Nonce)
		return
	}
	ok, err := btx.Verify(s.header.ChainId)
	if err != nil {
		return
	}
	if !ok {
		err = ErrTxSigInvalid
	}
	return
}

func PrefixEndBytes(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}

	end := make([]byte, len(prefix))
	copy(end, prefix)

	for {
		if end[len(end)-1] != byte(255) {
			end[len(end)-1]++
			break
		}

		end = end[:len(end)-1]

		if len(end) == 0 {
			end = nil
			break
		}
	}

	return end
}
