package models

// DatasetKind identifies which dataset family a question concerns.
type DatasetKind int

const (
	DatasetShortInterest DatasetKind = iota
	DatasetWeeklySummary
	DatasetTreasuryAggregate
)

func (k DatasetKind) String() string {
	switch k {
	case DatasetWeeklySummary:
		return "weeklySummary"
	case DatasetTreasuryAggregate:
		return "treasuryDailyAggregates"
	default:
		return "consolidatedShortInterest"
	}
}

// ResponseShape identifies the expected shape of the purple agent's answer.
type ResponseShape int

const (
	ShapeSingleSymbol ResponseShape = iota
	ShapeMultiSymbolMax
	ShapeTreasurySingle
	ShapeTreasuryMax
	ShapeTreasuryDelta
)

func (s ResponseShape) String() string {
	switch s {
	case ShapeMultiSymbolMax:
		return "multi-symbol-max"
	case ShapeTreasurySingle:
		return "treasury-single"
	case ShapeTreasuryMax:
		return "treasury-max"
	case ShapeTreasuryDelta:
		return "treasury-delta"
	default:
		return "single-symbol"
	}
}

// Classification is the classifier's decision for one request.
type Classification struct {
	Kind  DatasetKind
	Shape ResponseShape
}
