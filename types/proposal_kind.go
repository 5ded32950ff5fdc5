package types

// ProposalKind discriminates the two proposal payload variants.
type ProposalKind string

const (
	// KindQuantityAdjustment exchanges fixed absolute amounts against the
	// basket current at proposal creation; the active basket's rates are
	// left untouched on execution.
	KindQuantityAdjustment ProposalKind = "QuantityAdjustment"

	// KindBasketSwap replaces the active basket with a fully specified
	// target basket; per-token amounts are resolved at execution time.
	KindBasketSwap ProposalKind = "BasketSwap"
)

// StringToProposalKind converts a string to a ProposalKind.
var StringToProposalKind = map[string]ProposalKind{
	"QuantityAdjustment": KindQuantityAdjustment,
	"BasketSwap":         KindBasketSwap,
}
