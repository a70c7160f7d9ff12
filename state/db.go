package state

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/calehh/valreg-app/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const DefaultCacheSize = 4096

type StateDB struct {
	mtx sync.RWMutex

	dir    string
	logger cmtlog.Logger
	ldb    dbm.DB
	db     *iavl.MutableTree

	state     *State
	committed *iavl.ImmutableTree
	cache     *lru.Cache[string, []byte]
}

func NewStateDB(dir string, cacheSize int, logger cmtlog.Logger) (*StateDB, error) {
	ldb, err := dbm.NewDB("valreg", "goleveldb", dir)
	if err != nil {
		return nil, err
	}
	db, err := newStateDB(ldb, cacheSize, logger)
	if err != nil {
		return nil, err
	}
	db.dir = dir
	return db, nil
}

// NewMemStateDB keeps everything in memory.
func NewMemStateDB(logger cmtlog.Logger) (*StateDB, error) {
	return newStateDB(dbm.NewMemDB(), DefaultCacheSize, logger)
}

func newStateDB(ldb dbm.DB, cacheSize int, logger cmtlog.Logger) (db *StateDB, err error) {
	logger = logger.With("module", "statedb")
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	tdb := iavl.NewMutableTree(ldb, 128, true, NewTreeLogger(logger))
	version, err := tdb.Load()
	if err != nil {
		return nil, err
	}
	logger.Info("load db success", "version", version)
	st := newState(tdb, logger)
	st.dbVer = version
	err = st.load()
	if err != nil {
		logger.Error("statedb load fail", "err", err)
		return nil, err
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, err
	}
	db = &StateDB{
		logger: logger,
		ldb:    ldb,
		db:     tdb,
		state:  st,
		cache:  cache,
	}
	if version > 0 {
		if db.committed, err = tdb.GetImmutable(version); err != nil {
			return nil, err
		}
	}
	return
}

func (db *StateDB) Close() (err error) {
	if err = db.db.Close(); err != nil {
		return
	}
	return db.ldb.Close()
}

func (db *StateDB) Header() (header *StateHeader) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	header = db.state.Header().Clone()
	return
}

func (db *StateDB) State() *State {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	return db.state
}

func (db *StateDB) NewState() (st *State) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	st = db.state.nextState()
	return
}

func (db *StateDB) SetState(st *State) (hash common.Hash, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	hash, err = st.save()
	if err != nil {
		return
	}
	committed, err := db.db.GetImmutable(st.dbVer)
	if err != nil {
		return
	}
	db.state = st
	db.committed = committed
	db.cache.Purge()
	return
}

// committedReader reads the last saved version only.
type committedReader struct {
	db *StateDB
}

func (r committedReader) get(key []byte) ([]byte, error) {
	if r.db.committed == nil {
		return nil, nil
	}
	k := string(key)
	if v, ok := r.db.cache.Get(k); ok {
		return v, nil
	}
	val, err := r.db.committed.Get(key)
	if err != nil {
		return nil, err
	}
	if val != nil {
		r.db.cache.Add(k, val)
	}
	return val, nil
}

func queryRecord[T any](db *StateDB, key []byte) (rec *T, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	rec, err = loadRecord[T](committedReader{db}, key)
	height = db.state.header.Height
	return
}

func (db *StateDB) GetProfile(addr types.Address) (*types.Profile, uint64, error) {
	return queryRecord[types.Profile](db, recordKey(KeyProfile, addr))
}

func (db *StateDB) GetValidator(addr types.Address) (*types.ValidatorInfo, uint64, error) {
	return queryRecord[types.ValidatorInfo](db, recordKey(KeyValidator, addr))
}

func (db *StateDB) GetMint(addr types.Address) (*types.Mint, uint64, error) {
	return queryRecord[types.Mint](db, recordKey(KeyMint, addr))
}

func (db *StateDB) GetTokenAccount(addr types.Address) (*types.TokenAccount, uint64, error) {
	return queryRecord[types.TokenAccount](db, recordKey(KeyTokenAccount, addr))
}

func (db *StateDB) GetPool(addr types.Address) (*types.StakingPool, uint64, error) {
	return queryRecord[types.StakingPool](db, recordKey(KeyPool, addr))
}

func (db *StateDB) GetStakeVault(addr types.Address) (*types.StakeVault, uint64, error) {
	return queryRecord[types.StakeVault](db, recordKey(KeyStakeVault, addr))
}

func (db *StateDB) GetProposal(addr types.Address) (*types.Proposal, uint64, error) {
	return queryRecord[types.Proposal](db, recordKey(KeyProposal, addr))
}

func (db *StateDB) GetNonce(addr types.Address) (nonce uint64, height uint64, err error) {
	n, height, err := queryRecord[uint64](db, recordKey(KeyNonce, addr))
	if n != nil {
		nonce = *n
	}
	return
}

// GetTally scans the votes cast on proposal in committed state.
func (db *StateDB) GetTally(proposal types.Address) (tally *types.Tally, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	height = db.state.header.Height
	tally = &types.Tally{Proposal: proposal, Votes: []types.VoteRecord{}}
	if db.committed == nil {
		return
	}
	start := []byte(fmt.Sprintf("i%x", proposal.Bytes()))
	it, err := db.committed.Iterator(start, PrefixEndBytes(start), true)
	if err != nil {
		return nil, 0, err
	}
	defer it.Close()
	r := committedReader{db}
	for ; it.Valid(); it.Next() {
		if !bytes.HasPrefix(it.Key(), start) {
			break
		}
		var addr types.Address
		if err = rlp.DecodeBytes(it.Value(), &addr); err != nil {
			return nil, 0, errors.Wrapf(err, "decode vote index %x", it.Key())
		}
		vote, err := loadRecord[types.VoteRecord](r, recordKey(KeyVote, addr))
		if err != nil {
			return nil, 0, err
		}
		if vote == nil {
			return nil, 0, errors.Wrapf(ErrNotFound, "vote index %x", it.Key())
		}
		if vote.Vote {
			tally.Yes++
		} else {
			tally.No++
		}
		tally.Votes = append(tally.Votes, *vote)
	}
	return tally, height, nil
}
