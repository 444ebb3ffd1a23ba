// Package qsh decodes the QScalp History (QSH) binary market-data format:
// a gzip-or-raw framed, delta-encoded log of order-log entries, trades,
// aggregated quotes, session aux-info, messages, and own orders/trades.
package qsh

import "time"

// StreamType identifies the kind of record a stream header declares.
type StreamType byte

// Stream type codes, in the order the wire format defines them.
const (
	StreamQuotes    StreamType = 16
	StreamDeals     StreamType = 32
	StreamOwnOrders StreamType = 48
	StreamOwnTrades StreamType = 64
	StreamMessages  StreamType = 80
	StreamAuxInfo   StreamType = 96
	StreamOrdLog    StreamType = 112
)

func (t StreamType) String() string {
	switch t {
	case StreamQuotes:
		return "QUOTES"
	case StreamDeals:
		return "DEALS"
	case StreamOwnOrders:
		return "OWN_ORDERS"
	case StreamOwnTrades:
		return "OWN_TRADES"
	case StreamMessages:
		return "MESSAGES"
	case StreamAuxInfo:
		return "AUX_INFO"
	case StreamOrdLog:
		return "ORD_LOG"
	default:
		return "UNKNOWN"
	}
}

// Header is the fixed file header that follows the signature: version,
// free-form metadata, creation timestamp, and stream count. The signature
// itself is verified at Open and not stored here.
type Header struct {
	Version       byte
	Application   string
	Comment       string
	CreatedAt     time.Time
	StreamsCount  byte
}

// Signature is the literal 19-byte ASCII signature every QSH stream opens
// with, before or after gzip decompression.
const Signature = "QScalp History Data"

// StreamHeader is one per-stream header following the file header.
type StreamHeader struct {
	Type            StreamType
	InstrumentCode  string // empty for StreamMessages, which carries none
}

// FrameHeader precedes every record and resolves which stream it belongs to.
type FrameHeader struct {
	Timestamp   time.Time
	StreamIndex byte
}

// ordLogDataFlag bits select which OrdLogEntry fields are present in a
// given record (availability_mask, a single byte).
const (
	ordLogDatetime        byte = 1
	ordLogOrderID         byte = 2
	ordLogOrderPrice      byte = 4
	ordLogAmount          byte = 8
	ordLogOrderAmountRest byte = 16
	ordLogDealID          byte = 32
	ordLogDealPrice       byte = 64
	ordLogOIAfterDeal     byte = 128
)

// ActionFlag bits decode the ord-log actions_mask (u16 bitfield).
type ActionFlag uint16

const (
	ActionNonZeroReplAct ActionFlag = 1
	ActionFlowStart      ActionFlag = 2
	ActionAdd            ActionFlag = 4
	ActionFill           ActionFlag = 8
	ActionBuy            ActionFlag = 16
	ActionSell           ActionFlag = 32
	ActionSnapshot       ActionFlag = 64
	ActionQuote          ActionFlag = 128
	ActionCounter        ActionFlag = 256
	ActionNonSystem      ActionFlag = 512
	ActionEndOfTransaction ActionFlag = 1024
	ActionFillOrKill     ActionFlag = 2048
	ActionMoved          ActionFlag = 4096
	ActionCanceled       ActionFlag = 8192
	ActionCanceledGroup  ActionFlag = 16384
	ActionCrossTrade     ActionFlag = 32768
)

func (m ActionFlag) has(flag ActionFlag) bool { return m&flag != 0 }

// OrdLogEntry is a single order-log event, the stream the order book
// reconstructor is built from.
type OrdLogEntry struct {
	ActionsMask     ActionFlag
	ExchangeTime    time.Time
	ExchangeOrderID int64
	OrderPrice      int64
	Amount          int64
	AmountRest      int64
	DealID          int64
	DealPrice       int64
	OIAfterDeal     int64
}

// DealType classifies a DealEntry; the low two bits of the deals stream's
// availability mask encode this as a value, not individual flags.
type DealType byte

const (
	DealUnknown  DealType = 0
	DealBuy      DealType = 1
	DealSell     DealType = 2
	DealReserved DealType = 3
)

const (
	dealFlagType     byte = 0b11
	dealFlagDatetime byte = 4
	dealFlagID       byte = 8
	dealFlagOrderID  byte = 16
	dealFlagPrice    byte = 32
	dealFlagVolume   byte = 64
	dealFlagOI       byte = 128
)

// DealEntry is a completed trade, either standalone (deals stream) or
// derived from an ord-log FILL record whose deal id is greater than the
// last one emitted, whether or not END_OF_TRANSACTION is set.
type DealEntry struct {
	Type      DealType
	ID        int64
	Timestamp time.Time
	Price     int64
	Volume    int64
	OI        int64
	OrderID   int64
}

const (
	auxInfoDatetime    byte = 1
	auxInfoAskTotal    byte = 2
	auxInfoBidTotal    byte = 4
	auxInfoOI          byte = 8
	auxInfoPrice       byte = 16
	auxInfoSessionInfo byte = 32
	auxInfoRate        byte = 64
	auxInfoMessage     byte = 128
)

// AuxInfoEntry is a session/auxiliary snapshot, either standalone (aux-info
// stream) or derived from an ord-log end-of-transaction.
type AuxInfoEntry struct {
	Timestamp time.Time
	Price     int64
	AskTotal  int64
	BidTotal  int64
	OI        int64
	HiLimit   int64
	LowLimit  int64
	Deposit   float64
	Rate      float64
	Message   string
}

// MessageType classifies a Message.
type MessageType byte

const (
	MessageInfo  MessageType = 1
	MessageWarn  MessageType = 2
	MessageError MessageType = 3
)

// Message is a free-text informational/warning/error event.
type Message struct {
	Timestamp time.Time
	Type      MessageType
	Text      string
}

// OwnTrade is one of the caller's own executed trades.
type OwnTrade struct {
	Timestamp time.Time
	TradeID   int64
	OrderID   int64
	Price     int64
	Volume    int64
}

// OwnOrderType classifies an OwnOrder.
type OwnOrderType byte

const (
	OwnOrderNone    OwnOrderType = 0
	OwnOrderRegular OwnOrderType = 1
	OwnOrderStop    OwnOrderType = 2
)

const (
	ownOrderDropAll byte = 1
	ownOrderActive  byte = 2
	ownOrderExternal byte = 4
	ownOrderStop    byte = 8
)

// OwnOrder is one of the caller's own resting orders. A DROP_ALL record
// (no fields present) decodes to nil.
type OwnOrder struct {
	Type       OwnOrderType
	ID         int64
	Price      int64
	AmountRest int64
}

// QuotesSnapshot maps price to signed resting volume. Within the ord-log
// stream, positive entries are the ask side and negative entries are the
// bid side, by convention; within the standalone quotes stream, volume is
// exactly as written on the wire.
type QuotesSnapshot map[int64]int64

// Clone returns an independent copy, safe to retain past the call that
// produced it (see §5's defensive-copy contract on external_quotes).
func (q QuotesSnapshot) Clone() QuotesSnapshot {
	cp := make(QuotesSnapshot, len(q))
	for k, v := range q {
		cp[k] = v
	}
	return cp
}
