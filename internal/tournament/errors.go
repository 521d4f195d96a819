package tournament

import "errors"

var (
	ErrUnknownTeam            = errors.New("team not found in qualified teams")
	ErrAlreadyEliminated      = errors.New("team has already been eliminated")
	ErrSameTeam               = errors.New("both sides of a match must be different teams")
	ErrInvalidRound           = errors.New("unrecognized round")
	ErrInvalidRoundForDraw    = errors.New("draws are only allowed in the Group Stage")
	ErrRoundCapacityExceeded  = errors.New("too many active teams for the target round")
	ErrGroupStageIncomplete   = errors.New("group stage is not complete")
	ErrAdvancingCountMismatch = errors.New("wrong number of advancing teams")
	ErrNothingToUndo          = errors.New("no matches to undo")
	ErrUndoReconstruction     = errors.New("match history is inconsistent, cannot reconstruct prior state")
)
