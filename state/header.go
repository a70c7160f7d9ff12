package state

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

var ErrInvalidHeader = errors.New("invalid state header")

const (
	headerFieldChainId  protowire.Number = 1
	headerFieldHeight   protowire.Number = 2
	headerFieldRootHash protowire.Number = 3
	headerFieldHash     protowire.Number = 4
	headerFieldBlkTime  protowire.Number = 5
)

type StateHeader struct {
	ChainId   string
	Height    uint64
	RootHash  []byte
	Hash      []byte
	BlockTime uint64
}

func (h *StateHeader) Clone() *StateHeader {
	n := *h
	if h.RootHash != nil {
		n.RootHash = append([]byte{}, h.RootHash...)
	}
	if h.Hash != nil {
		n.Hash = append([]byte{}, h.Hash...)
	}
	return &n
}

func (h *StateHeader) GetHash() []byte {
	if h == nil {
		return nil
	}
	return h.Hash
}

func (h *StateHeader) Marshal() []byte {
	var b []byte
	if h.ChainId != "" {
		b = protowire.AppendTag(b, headerFieldChainId, protowire.BytesType)
		b = protowire.AppendString(b, h.ChainId)
	}
	if h.Height != 0 {
		b = protowire.AppendTag(b, headerFieldHeight, protowire.VarintType)
		b = protowire.AppendVarint(b, h.Height)
	}
	if len(h.RootHash) != 0 {
		b = protowire.AppendTag(b, headerFieldRootHash, protowire.BytesType)
		b = protowire.AppendBytes(b, h.RootHash)
	}
	if len(h.Hash) != 0 {
		b = protowire.AppendTag(b, headerFieldHash, protowire.BytesType)
		b = protowire.AppendBytes(b, h.Hash)
	}
	if h.BlockTime != 0 {
		b = protowire.AppendTag(b, headerFieldBlkTime, protowire.VarintType)
		b = protowire.AppendVarint(b, h.BlockTime)
	}
	return b
}

// Unmarshal skips unknown fields.
func (h *StateHeader) Unmarshal(b []byte) error {
	*h = StateHeader{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(ErrInvalidHeader, protowire.ParseError(n).Error())
		}
		b = b[n:]
		switch {
		case num == headerFieldChainId && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return errors.Wrap(ErrInvalidHeader, protowire.ParseError(n).Error())
			}
			h.ChainId = v
			b = b[n:]
		case num == headerFieldHeight && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return errors.Wrap(ErrInvalidHeader, protowire.ParseError(n).Error())
			}
			h.Height = v
			b = b[n:]
		case num == headerFieldRootHash && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return errors.Wrap(ErrInvalidHeader, protowire.ParseError(n).Error())
			}
			h.RootHash = append([]byte{}, v...)
			b = b[n:]
		case num == headerFieldHash && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return errors.Wrap(ErrInvalidHeader, protowire.ParseError(n).Error())
			}
			h.Hash = append([]byte{}, v...)
			b = b[n:]
		case num == headerFieldBlkTime && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return errors.Wrap(ErrInvalidHeader, protowire.ParseError(n).Error())
			}
			h.BlockTime = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errors.Wrap(ErrInvalidHeader, protowire.ParseError(n).Error())
			}
			b = b[n:]
		}
	}
	return nil
}
