package types

// ProposalState is the lifecycle state of a proposal. States move strictly
// forward; Cancelled is reachable from Created or Accepted only, and both
// Cancelled and Completed are terminal.
type ProposalState string

const (
	ProposalStateCreated   ProposalState = "Created"
	ProposalStateAccepted  ProposalState = "Accepted"
	ProposalStateCancelled ProposalState = "Cancelled"
	ProposalStateCompleted ProposalState = "Completed"
)

// StringToProposalState converts a string to a ProposalState.
var StringToProposalState = map[string]ProposalState{
	"Created":   ProposalStateCreated,
	"Accepted":  ProposalStateAccepted,
	"Cancelled": ProposalStateCancelled,
	"Completed": ProposalStateCompleted,
}

// Terminal reports whether no further transitions are possible from s.
func (s ProposalState) Terminal() bool {
	return s == ProposalStateCancelled || s == ProposalStateCompleted
}
