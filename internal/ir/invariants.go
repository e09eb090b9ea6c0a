package ir

import "fmt"

// ValidateSSAShape checks §3.7 invariant 3 ("each block has exactly one
// terminator and each variable version is assigned exactly once") to the
// extent that is checkable structurally: every block must carry a non-nil
// terminator, block ids must be unique, and branch/jump targets must refer
// to blocks that exist in the same CFG. Per-variable single-assignment is
// checked by internal/optimizer and internal/backend as they walk
// instructions, since it requires tracking versions across the whole
// function.
func ValidateSSAShape(cfg *CFG) error {
	seen := make(map[int]bool, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		if seen[b.ID] {
			return fmt.Errorf("duplicate basic block id %d", b.ID)
		}
		seen[b.ID] = true
		if b.Terminator == nil {
			return fmt.Errorf("basic block %d has no terminator", b.ID)
		}
	}
	for _, b := range cfg.Blocks {
		targets := terminatorTargets(b.Terminator)
		for _, t := range targets {
			if !seen[t] {
				return fmt.Errorf("basic block %d terminator references missing block %d", b.ID, t)
			}
		}
	}
	return nil
}

func terminatorTargets(t Terminator) []int {
	switch term := t.(type) {
	case BranchTerm:
		return []int{term.TrueBlock, term.FalseBlock}
	case JumpTerm:
		return []int{term.Block}
	default:
		return nil
	}
}
