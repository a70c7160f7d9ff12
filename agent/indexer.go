package agent

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/calehh/valreg-app/types"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	comethttp "github.com/cometbft/cometbft/rpc/client/http"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"
)

// ChainIndexer follows committed blocks and keeps the engine's events in sqlite.
type ChainIndexer struct {
	logger        cmtlog.Logger
	Url           string
	Height        int64
	db            *gorm.DB
	cli           *comethttp.HTTP
	eventHandlers map[string]eventHandler
}

func openIndexDB(dbPath string) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open indexer db %s", dbPath)
	}
	if err := db.AutoMigrate(&Height{}, &Validator{}, &Proposal{}, &Vote{}, &StakeActivity{}).Error; err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewChainIndexer(logger cmtlog.Logger, dbPath string, chainUrl string) (*ChainIndexer, error) {
	logger.Info("NewChainIndexer", "dbPath", dbPath, "url", chainUrl)
	cli, err := comethttp.New(chainUrl, "/websocket")
	if err != nil {
		return nil, err
	}
	db, err := openIndexDB(dbPath)
	if err != nil {
		return nil, err
	}
	c, err := newChainIndexer(logger, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.Url = chainUrl
	c.cli = cli
	return c, nil
}

func newChainIndexer(logger cmtlog.Logger, db *gorm.DB) (*ChainIndexer, error) {
	h := Height{Id: 1}
	if err := db.First(&h).Error; err != nil && !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}
	c := &ChainIndexer{
		logger: logger.With("module", "indexer"),
		Height: int64(h.Height + 1),
		db:     db,
	}
	c.eventHandlers = map[string]eventHandler{
		types.EventInitValidatorType:   c.handleEventInitValidator,
		types.EventUpdateValidatorType: c.handleEventUpdateValidator,
		types.EventCloseValidatorType:  c.handleEventCloseValidator,
		types.EventCreateProposalType:  c.handleEventCreateProposal,
		types.EventVoteType:            c.handleEventVote,
		types.EventStakeType:           c.handleEventStake,
		types.EventUnstakeType:         c.handleEventStake,
		types.EventClaimRewardType:     c.handleEventStake,
	}
	return c, nil
}

func (c *ChainIndexer) Close() error {
	return c.db.Close()
}

// eventHandler stores one event through db, the transaction of its block.
type eventHandler func(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error

func (c *ChainIndexer) handleEvent(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	if h, ok := c.eventHandlers[event.Type]; ok {
		return h(ctx, db, event, height)
	}
	return nil
}

func (c *ChainIndexer) handleEventInitValidator(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventInitValidator(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return nil
	}
	val := Validator{
		Address:      ev.Validator.Hex(),
		Authority:    ev.Authority.Hex(),
		Profile:      ev.Profile.Hex(),
		ValidatorId:  ev.ID,
		Name:         ev.Name,
		IsActive:     true,
		TokenAccount: ev.TokenAccount.Hex(),
		Minted:       ev.Minted,
		Height:       uint64(height),
	}
	return errors.Wrap(db.Save(&val).Error, "save validator")
}

func (c *ChainIndexer) handleEventUpdateValidator(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventUpdateValidator(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return nil
	}
	err := db.Model(&Validator{}).Where("address = ?", ev.Validator.Hex()).
		Updates(map[string]interface{}{"name": ev.Name, "is_active": ev.IsActive, "height": uint64(height)}).Error
	return errors.Wrap(err, "update validator")
}

func (c *ChainIndexer) handleEventCloseValidator(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventCloseValidator(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return nil
	}
	err := db.Model(&Validator{}).Where("address = ?", ev.Validator.Hex()).
		Updates(map[string]interface{}{"closed": true, "is_active": false, "height": uint64(height)}).Error
	return errors.Wrap(err, "close validator")
}

func (c *ChainIndexer) handleEventCreateProposal(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventCreateProposal(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return nil
	}
	proposal := Proposal{
		Address:    ev.Proposal.Hex(),
		Profile:    ev.Profile.Hex(),
		Authority:  ev.Authority.Hex(),
		ProposalId: ev.ID,
		Title:      ev.Title,
		CreateTime: ev.CreatedAt,
		Deadline:   ev.Deadline,
		Height:     uint64(height),
	}
	return errors.Wrap(db.Save(&proposal).Error, "save proposal")
}

func (c *ChainIndexer) handleEventVote(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventVote(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return nil
	}
	vote := Vote{
		Address:   ev.VoteRecord.Hex(),
		Proposal:  ev.Proposal.Hex(),
		Validator: ev.Validator.Hex(),
		Authority: ev.Authority.Hex(),
		Vote:      ev.Vote,
		Timestamp: ev.Timestamp,
		Height:    uint64(height),
	}
	return errors.Wrap(db.Save(&vote).Error, "save vote")
}

func (c *ChainIndexer) handleEventStake(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventStake(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return nil
	}
	activity := StakeActivity{
		Kind:           event.Type,
		Owner:          ev.Owner.Hex(),
		Pool:           ev.Pool.Hex(),
		Amount:         ev.Amount,
		StartStakeTime: ev.StartStakeTime,
		Height:         uint64(height),
	}
	return errors.Wrap(db.Create(&activity).Error, "save stake activity")
}

// indexBlock stores the events of one block and records it as indexed, all
// in one transaction.
func (c *ChainIndexer) indexBlock(ctx context.Context, height int64, results []*abci.ExecTxResult) error {
	db := c.db.Begin()
	if db.Error != nil {
		return db.Error
	}
	for _, res := range results {
		if res == nil || res.Code != 0 {
			continue
		}
		for _, event := range res.Events {
			if err := c.handleEvent(ctx, db, event, height); err != nil {
				db.Rollback()
				return err
			}
		}
	}
	if err := db.Save(&Height{Id: 1, Height: uint64(height)}).Error; err != nil {
		db.Rollback()
		return err
	}
	return db.Commit().Error
}

func (c *ChainIndexer) reconnect() {
	if c.cli != nil && c.cli.IsRunning() {
		return
	}
	cli, err := comethttp.New(c.Url, "/websocket")
	if err != nil {
		c.logger.Error("reconnect fail", "err", err)
		return
	}
	c.cli = cli
}

func (c *ChainIndexer) sync(ctx context.Context) {
	b, err := c.cli.Status(ctx)
	if err != nil {
		c.logger.Error("get status fail", "err", err)
		c.reconnect()
		return
	}
	for b.SyncInfo.LatestBlockHeight >= c.Height {
		if ctx.Err() != nil {
			return
		}
		height := c.Height
		res, err := c.cli.BlockResults(ctx, &height)
		if err != nil {
			c.logger.Error("get block results fail", "height", height, "err", err)
			c.reconnect()
			return
		}
		if err = c.indexBlock(ctx, height, res.TxsResults); err != nil {
			c.logger.Error("save height fail", "height", height, "err", err)
			return
		}
		if height%100 == 0 {
			c.logger.Info("indexer syncing", "height", height)
		}
		c.Height++
	}
}

func (c *ChainIndexer) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sync(ctx)
		}
	}
}

func (c *ChainIndexer) getProposals(page int, pageSize int) ([]Proposal, uint64, error) {
	var proposals []Proposal
	err := c.db.Order("height desc").Offset(page * pageSize).Limit(pageSize).Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Proposal{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return proposals, total, nil
}

func (c *ChainIndexer) getProposal(address string) (*Proposal, error) {
	var proposal Proposal
	err := c.db.Where("address = ?", address).First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (c *ChainIndexer) getVotesByProposal(proposal string, page int, pageSize int) ([]Vote, error) {
	var votes []Vote
	err := c.db.Where("proposal = ?", proposal).Order("timestamp asc").Offset(page * pageSize).Limit(pageSize).Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (c *ChainIndexer) getVotesByValidator(validator string, page int, pageSize int) ([]Vote, error) {
	var votes []Vote
	err := c.db.Where("validator = ?", validator).Order("timestamp desc").Offset(page * pageSize).Limit(pageSize).Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// tally counts the indexed votes of proposal.
func (c *ChainIndexer) tally(proposal string) (yes uint64, no uint64, err error) {
	if err = c.db.Model(&Vote{}).Where("proposal = ? AND vote = ?", proposal, true).Count(&yes).Error; err != nil {
		return
	}
	err = c.db.Model(&Vote{}).Where("proposal = ? AND vote = ?", proposal, false).Count(&no).Error
	return
}

func (c *ChainIndexer) getValidators(authority string) ([]Validator, error) {
	var validators []Validator
	q := c.db.Where("closed = ?", false)
	if authority != "" {
		q = q.Where("authority = ?", authority)
	}
	if err := q.Order("height asc").Find(&validators).Error; err != nil {
		return nil, err
	}
	return validators, nil
}

func (c *ChainIndexer) getStakesByOwner(owner string, page int, pageSize int) ([]StakeActivity, uint64, error) {
	var stakes []StakeActivity
	err := c.db.Where("owner = ?", owner).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&stakes).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&StakeActivity{}).Where("owner = ?", owner).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return stakes, total, nil
}
