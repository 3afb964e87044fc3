package domain

// AssignmentRef names the single resource an assignment links to a job.
// Exactly one of WorkerID / ContractorID must be set.
type AssignmentRef struct {
	WorkerID     string
	ContractorID string
}

// Validate checks the exclusivity rule on a single assignment.
func (a AssignmentRef) Validate() error {
	if a.WorkerID == "" && a.ContractorID == "" {
		return ErrEmptyAssignment
	}
	if a.WorkerID != "" && a.ContractorID != "" {
		return ErrAmbiguousAssignment
	}
	return nil
}

// ValidateAssignmentSet validates a full replace-all submission: every element
// names exactly one resource, and no worker or contractor appears twice.
func ValidateAssignmentSet(refs []AssignmentRef) error {
	workers := make(map[string]struct{}, len(refs))
	contractors := make(map[string]struct{}, len(refs))

	for _, ref := range refs {
		if err := ref.Validate(); err != nil {
			return err
		}
		if ref.WorkerID != "" {
			if _, dup := workers[ref.WorkerID]; dup {
				return ErrDuplicateAssignment
			}
			workers[ref.WorkerID] = struct{}{}
			continue
		}
		if _, dup := contractors[ref.ContractorID]; dup {
			return ErrDuplicateAssignment
		}
		contractors[ref.ContractorID] = struct{}{}
	}

	return nil
}

// ContainsWorker reports whether refs already assigns workerID.
func ContainsWorker(refs []AssignmentRef, workerID string) bool {
	for _, ref := range refs {
		if ref.WorkerID == workerID {
			return true
		}
	}
	return false
}

// ContainsContractor reports whether refs already assigns contractorID.
func ContainsContractor(refs []AssignmentRef, contractorID string) bool {
	for _, ref := range refs {
		if ref.ContractorID == contractorID {
			return true
		}
	}
	return false
}
